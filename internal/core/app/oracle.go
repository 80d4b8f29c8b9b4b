package app

import (
	"io"
	"log/slog"

	"rapidscore/internal/core/config"
	"rapidscore/internal/core/errors"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/engine/lexicon"
)

// OpenOracle constructs the dictionary backend. The returned closer is nil
// for backends holding no resources.
func OpenOracle(backend, path string) (ports.WordOracle, io.Closer, error) {
	switch backend {
	case config.BackendWordList, "":
		words, err := lexicon.LoadWordList(path)
		if err != nil {
			return nil, nil, oracleError(err, backend, path)
		}
		slog.Debug("word list loaded", "path", path, "words", words.Len())
		return words, nil, nil
	case config.BackendSQLite:
		db, err := lexicon.OpenSQLite(path)
		if err != nil {
			return nil, nil, oracleError(err, backend, path)
		}
		slog.Debug("sqlite lexicon opened", "path", path)
		return db, db, nil
	default:
		err := errors.New(errors.CodeOracleUnavailable, "unknown lexicon backend")
		return nil, nil, errors.AddContext(err, errors.CtxBackend, backend)
	}
}

func oracleError(err error, backend, path string) error {
	wrapped := errors.Wrap(err, errors.CodeOracleUnavailable, "word oracle initialization failed")
	wrapped = errors.AddContext(wrapped, errors.CtxBackend, backend)
	return errors.AddContext(wrapped, errors.CtxPath, path)
}
