package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ambava-store/internal/config"
	"github.com/ambava-store/internal/logger"
	"github.com/ambava-store/internal/provider"
	"github.com/ambava-store/internal/router"
	"github.com/ambava-store/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		if err := bootstrapStaff(container); err != nil {
			return nil, err
		}
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server, engine))
	}

	// 初始化 Worker 服务
	// 队列未启用时 all 模式只跑 HTTP，通知改为进程内发送
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, fmt.Errorf("unknown run mode %q", mode)
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "queue", opts.Config.Queue.Enabled)
	return RunWithOptions(runner, opts)
}

// bootstrapStaff 按配置创建默认员工，并把员工角色同步到 RBAC
func bootstrapStaff(container *provider.Container) error {
	staff, err := container.StaffAuthService.EnsureDefaultStaff(context.Background())
	if err != nil {
		return fmt.Errorf("ensure default staff: %w", err)
	}
	if staff == nil {
		logger.Infow("default_staff_skipped", "reason", "staff credentials not configured")
	}
	if err := container.StaffAuthService.SyncAllRoles(); err != nil {
		return fmt.Errorf("sync staff roles: %w", err)
	}
	return nil
}
