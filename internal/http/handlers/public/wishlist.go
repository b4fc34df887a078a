package public

import (
	"github.com/ambava-store/internal/http/response"
	"github.com/ambava-store/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ToggleWishlistRequest 收藏切换请求
type ToggleWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist 收藏的商品 ID，游客返回空列表
func (h *Handler) GetWishlist(c *gin.Context) {
	userID := optionalUserID(c)
	if userID == 0 {
		response.Success(c, gin.H{"product_ids": []uint{}})
		return
	}
	ids, err := h.WishlistService.ProductIDs(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if ids == nil {
		ids = []uint{}
	}
	response.Success(c, gin.H{"product_ids": ids})
}

// ToggleWishlist 加入或移出收藏
func (h *Handler) ToggleWishlist(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ToggleWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	added, err := h.WishlistService.Toggle(userID, req.ProductID)
	if err != nil {
		respondWithMappedError(c, err, wishlistErrorRules, response.CodeInternal, "error.internal")
		return
	}
	key := "msg.wishlist_removed"
	if added {
		key = "msg.wishlist_added"
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), key), gin.H{"added": added})
}
