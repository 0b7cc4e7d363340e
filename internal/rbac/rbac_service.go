package rbac

import (
	"sync"

	"go-selfservice/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const (
	TokenTypeAccess = "ACCESS"

	RoleSelfService = "self-service"
)

// Policy is one role permission.
type Policy struct {
	Role     string
	Resource string
	Action   string
}

// DefaultPolicies are granted to every ACCESS token.
var DefaultPolicies = []Policy{
	{Role: RoleSelfService, Resource: "employees", Action: "read"},
	{Role: RoleSelfService, Resource: "leave-requests", Action: "read"},
	{Role: RoleSelfService, Resource: "leave-requests", Action: "write"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService loads policies into enforcer and binds the ACCESS token type
// to RoleSelfService.
func NewService(enforcer *casbin.Enforcer, policies []Policy, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return nil, err
		}
	}
	if _, err := enforcer.AddGroupingPolicy(TokenTypeAccess, RoleSelfService); err != nil {
		return nil, err
	}
	l.Info("rbac policies loaded", zap.Int("policies", len(policies)))

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(req.TokenType, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("token_type", req.TokenType),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("token_type", req.TokenType),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
