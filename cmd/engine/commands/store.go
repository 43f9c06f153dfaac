package commands

import (
	log "github.com/sirupsen/logrus"
	"github.com/trollsnake/engine/controller"
	"github.com/trollsnake/engine/controller/filestore"
	"github.com/trollsnake/engine/controller/redisstore"
	"github.com/trollsnake/engine/controller/sqlstore"
)

var (
	storeBackend     = "file"
	storeBackendArgs = ""
)

// openStore builds the store picked on the command line. The returned func
// releases it.
func openStore() (controller.Store, func()) {
	var store controller.Store
	var err error
	switch storeBackend {
	case "inmem":
		store = controller.InMemStore()
	case "file":
		dir := storeBackendArgs
		if dir == "" {
			dir = filestore.DefaultDir()
		}
		store = filestore.NewFileStore(dir)
	case "redis":
		store, err = redisstore.NewRedisStore(storeBackendArgs)
	case "sql":
		store, err = sqlstore.NewSQLStore(storeBackendArgs)
	default:
		log.WithField("backend", storeBackend).Fatal("invalid backend")
	}
	if err != nil {
		log.WithError(err).
			WithField("backend", storeBackend).
			Fatal("unable to start up backend store")
	}

	log.WithField("backend", storeBackend).Debug("store ready")
	store = controller.InstrumentStore(store)
	return store, func() {
		if c, ok := store.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				log.WithError(err).Error("unable to close store")
			}
		}
	}
}
