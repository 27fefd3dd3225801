package status

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/videotranscoder/internal/logger"
)

type implServer struct {
	addr   string
	source Source
	logger logger.Logger
	engine *gin.Engine
}

// New creates a status Server listening on addr
func New(addr string, source Source, log logger.Logger) Server {
	gin.SetMode(gin.ReleaseMode)
	s := &implServer{
		addr:   addr,
		source: source,
		logger: log,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mainly for tests
func Handler(source Source, log logger.Logger) http.Handler {
	return New("", source, log).(*implServer).engine
}
