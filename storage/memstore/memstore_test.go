package memstore_test

import (
	"testing"

	"github.com/qlpt/rental-portal/storage"
	"github.com/qlpt/rental-portal/storage/memstore"
	"github.com/qlpt/rental-portal/storage/storagetest"
)

func TestMemStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return memstore.New()
	})
}
