// Package securefile provides encrypted JSON file read/write with atomic writes.
// Uses Argon2id for KDF and XChaCha20-Poly1305 for AEAD.
package securefile

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	// ErrInvalidPasswordOrCorrupt is returned when decryption fails.
	// Keep this generic to avoid leaking details.
	ErrInvalidPasswordOrCorrupt = errors.New("invalid password or corrupted file")

	// ErrMalformedEnvelope is returned when the file is not an envelope at
	// all, so no password could open it.
	ErrMalformedEnvelope = errors.New("malformed encrypted file")
)

const envelopeVersion = 1

// KDFParams describes the on-disk encryption envelope and KDF settings.
// This is what gets marshaled to disk (as JSON).
type KDFParams struct {
	Version int `json:"version"`

	// Argon2id params
	ArgonTime    uint32 `json:"argon_time"`
	ArgonMemory  uint32 `json:"argon_memory_kib"`
	ArgonThreads uint8  `json:"argon_threads"`
	ArgonKeyLen  uint32 `json:"argon_key_len"`

	// Envelope
	SaltB64  string `json:"salt_b64"`
	NonceB64 string `json:"nonce_b64"`
	CTB64    string `json:"ct_b64"`
}

// DefaultKDF are reasonable defaults for a local encrypted file.
var DefaultKDF = KDFParams{
	Version:      envelopeVersion,
	ArgonTime:    2,
	ArgonMemory:  64 * 1024, // 64 MiB in KiB
	ArgonThreads: 1,
	ArgonKeyLen:  32,
}

// Options controls encryption behavior.
type Options struct {
	// KDF parameters to use (Version must be 1).
	KDF KDFParams

	// File permissions for the final file and directory.
	FilePerm      os.FileMode
	DirectoryPerm os.FileMode

	// AADFunc returns associated data for AEAD. The returned bytes must be
	// identical on read and write.
	AADFunc func(path string) []byte
}

func defaultOptions() Options {
	return Options{
		KDF:           DefaultKDF,
		FilePerm:      0o600,
		DirectoryPerm: 0o700,
	}
}

// WriteEncrypted encrypts plain under a key derived from password and writes
// the envelope atomically to path.
func WriteEncrypted(path string, plain, password []byte, opt ...Options) error {
	o := mergeOptions(opt...)

	if len(password) == 0 {
		return errors.New("securefile w: empty password")
	}
	if isAllZero(password) {
		return errors.New("securefile w: zeroed password buffer")
	}
	if o.KDF.Version != envelopeVersion {
		return errors.Newf("unsupported kdf version: %d", o.KDF.Version)
	}

	if err := os.MkdirAll(filepath.Dir(path), o.DirectoryPerm); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "rand salt")
	}

	key := argon2.IDKey(
		password,
		salt,
		o.KDF.ArgonTime,
		o.KDF.ArgonMemory,
		o.KDF.ArgonThreads,
		o.KDF.ArgonKeyLen,
	)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return errors.Wrap(err, "aead")
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "rand nonce")
	}

	var aad []byte
	if o.AADFunc != nil {
		aad = o.AADFunc(path)
	}

	ct := aead.Seal(nil, nonce, plain, aad)

	out := o.KDF
	out.SaltB64 = base64.StdEncoding.EncodeToString(salt)
	out.NonceB64 = base64.StdEncoding.EncodeToString(nonce)
	out.CTB64 = base64.StdEncoding.EncodeToString(ct)

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal enc file")
	}

	return AtomicWriteFile(path, b, o.FilePerm)
}

// ReadEncrypted reads path and returns the decrypted payload. A missing file
// is reported with an error matching os.ErrNotExist.
func ReadEncrypted(path string, password []byte, opt ...Options) ([]byte, error) {
	o := mergeOptions(opt...)

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	if len(password) == 0 {
		return nil, errors.New("securefile r: empty password")
	}
	if isAllZero(password) {
		return nil, errors.New("securefile r: zeroed password buffer")
	}

	var ef KDFParams
	if err := json.Unmarshal(b, &ef); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshal enc file"), ErrMalformedEnvelope)
	}
	if ef.Version != envelopeVersion {
		return nil, errors.Mark(errors.Newf("unsupported file version: %d", ef.Version), ErrMalformedEnvelope)
	}

	salt, err := base64.StdEncoding.DecodeString(ef.SaltB64)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode salt"), ErrMalformedEnvelope)
	}
	nonce, err := base64.StdEncoding.DecodeString(ef.NonceB64)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode nonce"), ErrMalformedEnvelope)
	}
	if len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, errors.Mark(errors.Newf("nonce is %d bytes", len(nonce)), ErrMalformedEnvelope)
	}
	ct, err := base64.StdEncoding.DecodeString(ef.CTB64)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode ciphertext"), ErrMalformedEnvelope)
	}
	if ef.ArgonKeyLen != chacha20poly1305.KeySize || ef.ArgonTime == 0 || ef.ArgonThreads == 0 {
		return nil, errors.Mark(errors.New("bad kdf parameters"), ErrMalformedEnvelope)
	}

	key := argon2.IDKey(password, salt, ef.ArgonTime, ef.ArgonMemory, ef.ArgonThreads, ef.ArgonKeyLen)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "aead")
	}

	var aad []byte
	if o.AADFunc != nil {
		aad = o.AADFunc(path)
	}

	plain, err := aead.Open(nil, nonce, ct, aad)
	if err != nil {
		return nil, ErrInvalidPasswordOrCorrupt
	}
	return plain, nil
}

// ConfigPathCandidates returns config paths to try, in priority order.
// Uses CLIWALLET_ENV to optionally add a subfolder: local/ or develop/.
func ConfigPathCandidates(app, filename string) ([]string, error) {
	envFolder, err := EnvFolder()
	if err != nil {
		return nil, err
	}
	return configPathCandidatesForEnvFolder(app, filename, envFolder)
}

// configPathCandidatesForEnvFolder builds candidates for a specific envFolder.
// envFolder == "" means production layout (no subfolder).
func configPathCandidatesForEnvFolder(app, filename, envFolder string) ([]string, error) {
	if app == "" {
		return nil, errors.New("app must not be empty")
	}
	if filename == "" {
		return nil, errors.New("filename must not be empty")
	}

	var paths []string
	seen := map[string]bool{}
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	joinHomeStyle := func(homeLike string) string {
		// <home>/.config/<app>/<env?>/<filename>
		dir := filepath.Join(homeLike, ".config", app)
		if envFolder != "" {
			dir = filepath.Join(dir, envFolder)
		}
		return filepath.Join(dir, filename)
	}

	if realHome := os.Getenv("SNAP_REAL_HOME"); realHome != "" {
		add(joinHomeStyle(realHome))
	}

	if home := os.Getenv("HOME"); home != "" {
		add(joinHomeStyle(home))
	}

	// <UserConfigDir>/<app>/<env?>/<filename>
	if dir, err := os.UserConfigDir(); err == nil {
		baseDir := filepath.Join(dir, app)
		if envFolder != "" {
			baseDir = filepath.Join(baseDir, envFolder)
		}
		add(filepath.Join(baseDir, filename))
	} else if len(paths) == 0 {
		return nil, errors.Wrap(err, "UserConfigDir")
	}

	return paths, nil
}

// ResolvePath picks the first existing candidate, else the first candidate.
func ResolvePath(app, filename string) (string, error) {
	cands, err := ConfigPathCandidates(app, filename)
	if err != nil {
		return "", err
	}
	if len(cands) == 0 {
		return "", errors.New("no config path candidates returned")
	}
	for _, p := range cands {
		if Exists(p) {
			return p, nil
		}
	}
	return cands[0], nil
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mergeOptions(opt ...Options) Options {
	o := defaultOptions()
	if len(opt) == 0 {
		return o
	}
	in := opt[0]

	if in.KDF.Version != 0 {
		o.KDF = in.KDF
	}
	if in.FilePerm != 0 {
		o.FilePerm = in.FilePerm
	}
	if in.DirectoryPerm != 0 {
		o.DirectoryPerm = in.DirectoryPerm
	}
	if in.AADFunc != nil {
		o.AADFunc = in.AADFunc
	}
	return o
}

// AtomicWriteFile writes data to a sibling temp file and renames it over path,
// so a crash never leaves a truncated file behind.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"

	// Best effort cleanup if something already exists.
	_ = os.Remove(tmp)

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return errors.Wrap(err, "write tmp")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "rename")
	}
	return nil
}

// EnvFolder maps CLIWALLET_ENV to a config subfolder.
func EnvFolder() (string, error) {
	raw := strings.TrimSpace(os.Getenv("CLIWALLET_ENV"))
	if raw == "" {
		return "", nil
	}
	switch strings.ToLower(raw) {
	case "local":
		return "local", nil
	case "dev", "develop", "development":
		return "develop", nil
	case "prod", "production":
		return "", nil
	default:
		return "", errors.Newf("invalid CLIWALLET_ENV %q (allowed: local, develop, empty)", raw)
	}
}

// ZeroBytes overwrites b in place.
func ZeroBytes(b []byte) { zeroBytes(b) }

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
