package providers

import (
	"github.com/samber/do/v2"

	"github.com/secondbrain/brain-server/internal/auth"
	"github.com/secondbrain/brain-server/internal/logger"
	"github.com/secondbrain/brain-server/internal/service"
	"github.com/secondbrain/brain-server/internal/validation"
)

// ProvideTagService provides the tag resolver.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	hasher := do.MustInvoke[*auth.Hasher](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, hasher, tokens, log.Logger), nil
}

// ProvideContentService provides the content service.
func ProvideContentService(i do.Injector) (*service.ContentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tags := do.MustInvoke[*service.TagService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContentService(storeHandle.Store, tags, validator, log.Logger), nil
}
