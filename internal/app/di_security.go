package app

import (
	"context"
	"fmt"
	"sync"

	auditHTTP "github.com/isohub/securitycore/internal/audit/http"
	auditRepository "github.com/isohub/securitycore/internal/audit/repository"
	auditUseCase "github.com/isohub/securitycore/internal/audit/usecase"
	cryptoService "github.com/isohub/securitycore/internal/crypto/service"
	stateHTTP "github.com/isohub/securitycore/internal/oauthstate/http"
	stateRepository "github.com/isohub/securitycore/internal/oauthstate/repository"
	stateService "github.com/isohub/securitycore/internal/oauthstate/service"
	stateUseCase "github.com/isohub/securitycore/internal/oauthstate/usecase"
	piiHTTP "github.com/isohub/securitycore/internal/pii/http"
	piiService "github.com/isohub/securitycore/internal/pii/service"
	reauthHTTP "github.com/isohub/securitycore/internal/reauth/http"
	reauthRegistry "github.com/isohub/securitycore/internal/reauth/registry"
	reauthService "github.com/isohub/securitycore/internal/reauth/service"
	reauthUseCase "github.com/isohub/securitycore/internal/reauth/usecase"
	"github.com/isohub/securitycore/internal/tenant"
	userRepository "github.com/isohub/securitycore/internal/user/repository"
)

// securityComponents groups the lazily initialized security-domain parts of
// the container.
type securityComponents struct {
	fieldCodec       *piiService.FieldCodec
	piiHandler       *piiHTTP.PIIHandler
	stateRepo        *stateRepository.PostgreSQLStateRepository
	stateUseCase     stateUseCase.StateUseCase
	stateHandler     *stateHTTP.StateHandler
	userRepo         *userRepository.PostgreSQLUserRepository
	registry         *reauthRegistry.MemoryRegistry
	reauthUseCase    reauthUseCase.ReauthUseCase
	reauthHandler    *reauthHTTP.ReauthHandler
	auditUseCase     auditUseCase.AuditUseCase
	auditHandler     *auditHTTP.AuditHandler
	tenantPropagator *tenant.Propagator

	fieldCodecInit       sync.Once
	piiHandlerInit       sync.Once
	stateRepoInit        sync.Once
	stateUseCaseInit     sync.Once
	stateHandlerInit     sync.Once
	userRepoInit         sync.Once
	registryInit         sync.Once
	reauthUseCaseInit    sync.Once
	reauthHandlerInit    sync.Once
	auditUseCaseInit     sync.Once
	auditHandlerInit     sync.Once
	tenantPropagatorInit sync.Once
}

// FieldCodec returns the PII field codec. Key material is resolved once at
// initialization: KMS-wrapped key, env hex key, or an ephemeral process key
// with a loud warning.
func (c *Container) FieldCodec() (*piiService.FieldCodec, error) {
	c.security.fieldCodecInit.Do(func() {
		resolver := cryptoService.NewKeyResolver(
			c.config.PIIEncryptionKey,
			c.config.PIIKMSKeyURI,
			c.config.PIIEncryptedKey,
			cryptoService.NewKMSService(),
			c.Logger(),
		)
		key, err := resolver.Resolve(context.Background())
		if err != nil {
			c.initErrors["fieldCodec"] = fmt.Errorf("failed to resolve PII encryption key: %w", err)
			return
		}
		codec, err := cryptoService.NewCodec(key)
		if err != nil {
			c.initErrors["fieldCodec"] = fmt.Errorf("failed to create encryption codec: %w", err)
			return
		}
		c.security.fieldCodec = piiService.NewFieldCodec(codec)
	})
	if storedErr, exists := c.initErrors["fieldCodec"]; exists {
		return nil, storedErr
	}
	return c.security.fieldCodec, nil
}

// PIIHandler returns the PII field HTTP handler.
func (c *Container) PIIHandler() (*piiHTTP.PIIHandler, error) {
	c.security.piiHandlerInit.Do(func() {
		codec, err := c.FieldCodec()
		if err != nil {
			c.initErrors["piiHandler"] = err
			return
		}
		c.security.piiHandler = piiHTTP.NewPIIHandler(codec, c.Logger())
	})
	if storedErr, exists := c.initErrors["piiHandler"]; exists {
		return nil, storedErr
	}
	return c.security.piiHandler, nil
}

// StateRepository returns the OAuth state repository.
func (c *Container) StateRepository() (*stateRepository.PostgreSQLStateRepository, error) {
	c.security.stateRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["stateRepo"] = fmt.Errorf("failed to get database for state repository: %w", err)
			return
		}
		c.security.stateRepo = stateRepository.NewPostgreSQLStateRepository(db)
	})
	if storedErr, exists := c.initErrors["stateRepo"]; exists {
		return nil, storedErr
	}
	return c.security.stateRepo, nil
}

// StateUseCase returns the OAuth state use case.
func (c *Container) StateUseCase() (stateUseCase.StateUseCase, error) {
	c.security.stateUseCaseInit.Do(func() {
		repo, err := c.StateRepository()
		if err != nil {
			c.initErrors["stateUseCase"] = err
			return
		}
		signer, err := stateService.NewStateSigner(c.config.OAuthStateSecret)
		if err != nil {
			c.initErrors["stateUseCase"] = fmt.Errorf("failed to create state signer: %w", err)
			return
		}
		securityMetrics, err := c.SecurityMetrics()
		if err != nil {
			c.initErrors["stateUseCase"] = err
			return
		}
		propagator, err := c.TenantPropagator()
		if err != nil {
			c.initErrors["stateUseCase"] = err
			return
		}
		c.security.stateUseCase = stateUseCase.NewStateUseCase(
			repo,
			signer,
			propagator,
			c.config.OAuthStateTTL,
			c.Logger(),
			securityMetrics,
		)
	})
	if storedErr, exists := c.initErrors["stateUseCase"]; exists {
		return nil, storedErr
	}
	return c.security.stateUseCase, nil
}

// StateHandler returns the OAuth state HTTP handler.
func (c *Container) StateHandler() (*stateHTTP.StateHandler, error) {
	c.security.stateHandlerInit.Do(func() {
		useCase, err := c.StateUseCase()
		if err != nil {
			c.initErrors["stateHandler"] = err
			return
		}
		c.security.stateHandler = stateHTTP.NewStateHandler(
			useCase,
			int64(c.config.OAuthStateTTL.Seconds()),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["stateHandler"]; exists {
		return nil, storedErr
	}
	return c.security.stateHandler, nil
}

// UserRepository returns the user repository.
func (c *Container) UserRepository() (*userRepository.PostgreSQLUserRepository, error) {
	c.security.userRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["userRepo"] = fmt.Errorf("failed to get database for user repository: %w", err)
			return
		}
		c.security.userRepo = userRepository.NewPostgreSQLUserRepository(db)
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.security.userRepo, nil
}

// ReauthRegistry returns the process-local reauth token registry.
func (c *Container) ReauthRegistry() *reauthRegistry.MemoryRegistry {
	c.security.registryInit.Do(func() {
		c.security.registry = reauthRegistry.NewMemoryRegistry()
	})
	return c.security.registry
}

// ReauthUseCase returns the step-up reauthentication use case.
func (c *Container) ReauthUseCase() (reauthUseCase.ReauthUseCase, error) {
	c.security.reauthUseCaseInit.Do(func() {
		users, err := c.UserRepository()
		if err != nil {
			c.initErrors["reauthUseCase"] = err
			return
		}
		signer, err := reauthService.NewTokenSigner(c.config.JWTSecret)
		if err != nil {
			c.initErrors["reauthUseCase"] = fmt.Errorf("failed to create reauth token signer: %w", err)
			return
		}
		passwords, err := reauthService.NewPasswordVerifier()
		if err != nil {
			c.initErrors["reauthUseCase"] = fmt.Errorf("failed to create password verifier: %w", err)
			return
		}
		securityMetrics, err := c.SecurityMetrics()
		if err != nil {
			c.initErrors["reauthUseCase"] = err
			return
		}
		c.security.reauthUseCase = reauthUseCase.NewReauthUseCase(
			users,
			c.ReauthRegistry(),
			signer,
			passwords,
			reauthService.NewTOTPVerifier(),
			c.config.ReauthTokenTTL,
			c.Logger(),
			securityMetrics,
		)
	})
	if storedErr, exists := c.initErrors["reauthUseCase"]; exists {
		return nil, storedErr
	}
	return c.security.reauthUseCase, nil
}

// ReauthHandler returns the step-up reauthentication HTTP handler.
func (c *Container) ReauthHandler() (*reauthHTTP.ReauthHandler, error) {
	c.security.reauthHandlerInit.Do(func() {
		useCase, err := c.ReauthUseCase()
		if err != nil {
			c.initErrors["reauthHandler"] = err
			return
		}
		c.security.reauthHandler = reauthHTTP.NewReauthHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["reauthHandler"]; exists {
		return nil, storedErr
	}
	return c.security.reauthHandler, nil
}

// AuditUseCase returns the security assessment use case.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	c.security.auditUseCaseInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["auditUseCase"] = fmt.Errorf("failed to get database for audit use case: %w", err)
			return
		}
		users, err := c.UserRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		states, err := c.StateRepository()
		if err != nil {
			c.initErrors["auditUseCase"] = err
			return
		}
		c.security.auditUseCase = auditUseCase.NewAuditUseCase(
			c.config,
			users,
			states,
			auditRepository.NewPostgreSQLPolicyRepository(db),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.security.auditUseCase, nil
}

// AuditHandler returns the security assessment HTTP handler.
func (c *Container) AuditHandler() (*auditHTTP.AuditHandler, error) {
	c.security.auditHandlerInit.Do(func() {
		useCase, err := c.AuditUseCase()
		if err != nil {
			c.initErrors["auditHandler"] = err
			return
		}
		c.security.auditHandler = auditHTTP.NewAuditHandler(useCase, c.Logger())
	})
	if storedErr, exists := c.initErrors["auditHandler"]; exists {
		return nil, storedErr
	}
	return c.security.auditHandler, nil
}

// TenantPropagator returns the tenant context propagator.
func (c *Container) TenantPropagator() (*tenant.Propagator, error) {
	c.security.tenantPropagatorInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["tenantPropagator"] = fmt.Errorf("failed to get database for tenant propagator: %w", err)
			return
		}
		c.security.tenantPropagator = tenant.NewPropagator(db, c.Logger())
	})
	if storedErr, exists := c.initErrors["tenantPropagator"]; exists {
		return nil, storedErr
	}
	return c.security.tenantPropagator, nil
}
