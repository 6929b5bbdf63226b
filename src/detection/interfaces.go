package detection

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Service registers the detection routes on the engine and API group.
type Service interface {
	Start(ctx context.Context, engine *gin.Engine, apiGroup *gin.RouterGroup) error
}
