// Package store persists the wallet list as one encrypted record set.
package store

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/quantumauth-io/cli-wallet/internal/constants"
	"github.com/quantumauth-io/cli-wallet/internal/errs"
	"github.com/quantumauth-io/cli-wallet/internal/securefile"
	"github.com/quantumauth-io/cli-wallet/internal/wallet"
)

type Store struct {
	path string
	opt  securefile.Options
	now  func() time.Time
}

func New(path string, kdf securefile.KDFParams) *Store {
	return &Store{
		path: path,
		opt: securefile.Options{
			KDF:           kdf,
			FilePerm:      constants.FilePerm,
			DirectoryPerm: constants.DirectoryPerm,
			AADFunc: func(string) []byte {
				return []byte(constants.AADConstant)
			},
		},
		now: time.Now,
	}
}

// Open resolves the wallet file location. dir overrides the per-user
// config directory when not empty.
func Open(dir string, kdf securefile.KDFParams) (*Store, error) {
	if dir != "" {
		return New(filepath.Join(dir, constants.WalletFile), kdf), nil
	}
	path, err := securefile.ResolvePath(constants.AppName, constants.WalletFile)
	if err != nil {
		return nil, errors.Wrap(err, "resolve wallet file path")
	}
	return New(path, kdf), nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Exists() bool { return securefile.Exists(s.path) }

// Load returns the persisted records, or an empty list when no file exists.
// A wrong password surfaces as securefile.ErrInvalidPasswordOrCorrupt. A file
// that is not an envelope, or a payload that decrypts but does not parse, is
// marked errs.ErrCorruptState.
func (s *Store) Load(password []byte) ([]wallet.Record, error) {
	if !s.Exists() {
		return []wallet.Record{}, nil
	}
	plain, err := securefile.ReadEncrypted(s.path, password, s.opt)
	if errors.Is(err, securefile.ErrMalformedEnvelope) {
		return nil, errs.Corrupt(err, "read "+s.path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.path)
	}
	defer securefile.ZeroBytes(plain)

	return Decode(plain)
}

// Save overwrites the file with records.
func (s *Store) Save(records []wallet.Record, password []byte) error {
	plain, err := Encode(records)
	if err != nil {
		return err
	}
	defer securefile.ZeroBytes(plain)

	if err := securefile.WriteEncrypted(s.path, plain, password, s.opt); err != nil {
		return errors.Wrapf(err, "write %s", s.path)
	}
	return nil
}

// Delete removes the file. A missing file is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", s.path)
	}
	return nil
}

// Quarantine moves an unreadable file aside and returns the new path.
func (s *Store) Quarantine() (string, error) {
	dst := s.path + constants.CorruptSuffix + strconv.FormatInt(s.now().Unix(), 10)
	if err := os.Rename(s.path, dst); err != nil {
		return "", errors.Wrapf(err, "move %s aside", s.path)
	}
	return dst, nil
}
