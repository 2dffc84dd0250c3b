package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapsync/pkg/core"
	"github.com/leapstack-labs/leapsync/pkg/dialect"
)

type fakeAdapter struct {
	BaseSQLAdapter
}

func (f *fakeAdapter) Connect(_ context.Context, cfg core.ConnectionConfig) error {
	f.Cfg = cfg
	return nil
}

func (f *fakeAdapter) PrimaryKey(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (f *fakeAdapter) GetTableMetadata(_ context.Context, _ string) (*core.TableMetadata, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeAdapter) Dialect() *dialect.Dialect {
	return dialect.ANSI()
}

func TestRegisterAndNew(t *testing.T) {
	Register("fake", func(logger *slog.Logger) Adapter {
		return &fakeAdapter{BaseSQLAdapter: BaseSQLAdapter{Logger: logger}}
	})

	assert.True(t, IsRegistered("fake"))
	assert.Contains(t, ListAdapters(), "fake")

	ad, err := New("fake", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	require.IsType(t, &fakeAdapter{}, ad)
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New("no-such-driver", nil)
	require.Error(t, err)

	var uae *UnknownAdapterError
	require.True(t, errors.As(err, &uae))
	assert.Equal(t, "no-such-driver", uae.Driver)
	assert.Contains(t, err.Error(), "leapsync.yaml")
}

func TestNewEmptyDriver(t *testing.T) {
	_, err := New("", nil)
	assert.Error(t, err)
}
