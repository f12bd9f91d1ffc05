package node

import (
	"github.com/inconshreveable/log15"

	"github.com/vitelabs/go-crowdfund/common"
	"github.com/vitelabs/go-crowdfund/config"
)

// InitLog sends every record to the terminal and, when a log dir is set,
// to a rotating file under it.
func InitLog(cfg *config.Config) {
	handlers := []log15.Handler{common.TerminalHandler(cfg.LogLevel)}
	if cfg.LogDir != "" {
		handlers = append(handlers,
			common.LogHandler(cfg.LogDir, "", "gfund.log", cfg.LogLevel),
			common.LogHandler(cfg.LogDir, "error", "gfund.error.log", "error"),
		)
	}
	log15.Root().SetHandler(log15.MultiHandler(handlers...))
}
