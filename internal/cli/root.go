package cli

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/meterlog/internal/app"
	"github.com/julianstephens/meterlog/internal/backup"
	"github.com/julianstephens/meterlog/internal/logger"
	"github.com/julianstephens/meterlog/internal/storage"
)

type Context struct {
	Store      storage.Provider
	Controller *app.Controller
	Logger     *log.Logger
}

func NewContext(store storage.Provider, l *log.Logger) *Context {
	l = logger.OrNop(l)
	return &Context{
		Store:      store,
		Controller: app.New(store, l),
		Logger:     l,
	}
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, err := os.Stat(c.Store.Path()); errors.Is(err, os.ErrNotExist) {
		return
	}
	mgr := backup.NewManager(c.Store.Path())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		c.Logger.Warn("Automatic backup failed", "error", err)
	}
}
