package storagebuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/louro2023/agendaflow/internal/storage"
	filestorage "github.com/louro2023/agendaflow/internal/storage/file"
	memorystorage "github.com/louro2023/agendaflow/internal/storage/memory"
	sqlstorage "github.com/louro2023/agendaflow/internal/storage/sql"
)

type Config struct {
	StorageType string
	Database    sqlstorage.Config
	File        filestorage.Config
}

func New(config Config) (storage.Storage, error) {
	switch config.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "file":
		s := filestorage.New(config.File)
		if err := s.Connect(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to load data file %q: %w", config.File.Path, err)
		}
		return s, nil
	case "sql":
		s := sqlstorage.New(config.Database)
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := s.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database %s %d: %w", config.Database.Host, config.Database.Port, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type %s", config.StorageType)
	}
}
