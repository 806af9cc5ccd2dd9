package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	"github.com/cosmos/gogoproto/proto"

	host "github.com/cosmos/ibc-solo-machine/modules/core/24-host"
	"github.com/cosmos/ibc-solo-machine/modules/core/metrics"
)

const (
	opAdd    = "add"
	opGet    = "get"
	opUpdate = "update"
)

// Keeper reads and writes IBC protocol objects keyed by path. It holds no
// connection of its own: every operation runs on the *gorm.DB passed in, which
// is either the pool or a transaction opened by the caller with db.Transaction.
type Keeper struct {
	logger log.Logger
}

// NewKeeper creates a new state store Keeper.
func NewKeeper(logger log.Logger) Keeper {
	return Keeper{logger: logger.With("module", "x/"+ModuleName)}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger() log.Logger {
	return k.logger
}

// Add stores msg under path. It fails with ErrDuplicatePath if the path
// already holds a value; the existing value is left untouched.
func (k Keeper) Add(ctx context.Context, tx *gorm.DB, path host.Path, msg proto.Message) error {
	if err := path.Validate(); err != nil {
		k.record(opAdd, metrics.ResultError)
		return pathError(opAdd, path, err)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		k.record(opAdd, metrics.ResultError)
		return pathError(opAdd, path, errorsmod.Wrap(ErrEncode, err.Error()))
	}

	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&IbcData{Path: path.String(), Data: data})
	if result.Error != nil {
		k.record(opAdd, metrics.ResultError)
		return pathError(opAdd, path, storageError(result.Error))
	}

	switch result.RowsAffected {
	case 1:
	case 0:
		k.record(opAdd, metrics.ResultDuplicate)
		return pathError(opAdd, path, errorsmod.Wrapf(ErrDuplicatePath, "path %s", path))
	default:
		k.record(opAdd, metrics.ResultError)
		return pathError(opAdd, path, errorsmod.Wrapf(ErrRowsAffected, "expected 1 row, got %d", result.RowsAffected))
	}

	k.record(opAdd, metrics.ResultSuccess)
	k.Logger().Debug("added ibc data", "path", path.String(), "kind", path.Kind().String(), "size", len(data))
	return nil
}

// Get decodes the value stored under path into msg. It returns false with a
// nil error when nothing is stored. A stored value that cannot be decoded is
// an ErrDecode error, never a miss.
func (k Keeper) Get(ctx context.Context, tx *gorm.DB, path host.Path, msg proto.Message) (bool, error) {
	if err := path.Validate(); err != nil {
		k.record(opGet, metrics.ResultError)
		return false, pathError(opGet, path, err)
	}

	var record IbcData
	err := tx.WithContext(ctx).Where("path = ?", path.String()).Take(&record).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		k.record(opGet, metrics.ResultNotFound)
		return false, nil
	case err != nil:
		k.record(opGet, metrics.ResultError)
		return false, pathError(opGet, path, storageError(err))
	}

	if err := proto.Unmarshal(record.Data, msg); err != nil {
		k.record(opGet, metrics.ResultError)
		return false, pathError(opGet, path, errorsmod.Wrap(ErrDecode, err.Error()))
	}

	k.record(opGet, metrics.ResultSuccess)
	return true, nil
}

// Update replaces the value stored under path. It fails with ErrMissingPath
// if nothing is stored there yet.
func (k Keeper) Update(ctx context.Context, tx *gorm.DB, path host.Path, msg proto.Message) error {
	if err := path.Validate(); err != nil {
		k.record(opUpdate, metrics.ResultError)
		return pathError(opUpdate, path, err)
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		k.record(opUpdate, metrics.ResultError)
		return pathError(opUpdate, path, errorsmod.Wrap(ErrEncode, err.Error()))
	}

	result := tx.WithContext(ctx).
		Model(&IbcData{}).
		Where("path = ?", path.String()).
		Update("data", data)
	if result.Error != nil {
		k.record(opUpdate, metrics.ResultError)
		return pathError(opUpdate, path, storageError(result.Error))
	}

	switch result.RowsAffected {
	case 1:
	case 0:
		k.record(opUpdate, metrics.ResultMissing)
		return pathError(opUpdate, path, errorsmod.Wrapf(ErrMissingPath, "path %s", path))
	default:
		k.record(opUpdate, metrics.ResultError)
		return pathError(opUpdate, path, errorsmod.Wrapf(ErrRowsAffected, "expected 1 row, got %d", result.RowsAffected))
	}

	k.record(opUpdate, metrics.ResultSuccess)
	k.Logger().Debug("updated ibc data", "path", path.String(), "kind", path.Kind().String(), "size", len(data))
	return nil
}

func (Keeper) record(operation, result string) {
	metrics.StoreOperations.WithLabelValues(operation, result).Inc()
}
