package providers

import (
	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/auth"
	"github.com/secondbrain/brain-server/internal/config"
	"github.com/secondbrain/brain-server/internal/logger"
	"github.com/secondbrain/brain-server/internal/validation"
)

// SigningKey wraps the session token key bytes.
type SigningKey []byte

// ProvideSigningKey resolves the token signing key. JWT_SECRET is used for
// JWT tokens when set; otherwise the key file under the data path is loaded
// or generated. PASETO always uses the key file since it needs exactly 32 bytes.
func ProvideSigningKey(i do.Injector) (SigningKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Auth.TokenFormat == config.TokenFormatJWT && cfg.Auth.JWTSecret != "" {
		log.Info("Token signing key loaded", "source", "JWT_SECRET", "format", cfg.Auth.TokenFormat)
		return SigningKey(cfg.Auth.JWTSecret), nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Storage.DataPath)
	if err != nil {
		return nil, err
	}

	log.Info("Token signing key loaded",
		"source", "key_file",
		"format", cfg.Auth.TokenFormat,
		"token_ttl", cfg.Auth.TokenTTL,
	)

	return SigningKey(key), nil
}

// ProvideTokenService provides the session token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[SigningKey](i)

	return auth.NewTokenService(cfg.Auth.TokenFormat, []byte(key), cfg.Auth.TokenTTL)
}

// ProvidePasswordHasher provides the password hasher.
func ProvidePasswordHasher(i do.Injector) (*auth.Hasher, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return auth.NewHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
}

// ProvideValidator provides the request body validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
