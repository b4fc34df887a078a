package authz

import "fmt"

// 预置员工角色
const (
	RoleOwner       = "owner"
	RoleFulfillment = "fulfillment"
	RoleSupport     = "support"
	RoleAuditor     = "readonly_auditor"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleAuditor,
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
		},
		{
			Role:     RoleFulfillment,
			Inherits: []string{RoleAuditor},
			Policies: []Policy{
				{Object: "/admin/orders/:id/status", Action: "PATCH"},
			},
		},
		{
			Role:     RoleSupport,
			Inherits: []string{RoleAuditor},
			Policies: []Policy{
				{Object: "/admin/returns/:id", Action: "PATCH"},
			},
		},
		{
			Role: RoleOwner,
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// IsBuiltinRole 是否为预置角色名
func IsBuiltinRole(role string) bool {
	for _, seed := range BuiltinRoleSeeds() {
		if seed.Role == role {
			return true
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := s.EnsureRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
