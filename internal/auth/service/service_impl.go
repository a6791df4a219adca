package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/brewhaus/internal/auth/domain"
	"github.com/smallbiznis/brewhaus/internal/auth/token"
	"github.com/smallbiznis/brewhaus/internal/config"
	profiledomain "github.com/smallbiznis/brewhaus/internal/profile/domain"
	"github.com/smallbiznis/brewhaus/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 6

type Params struct {
	fx.In

	Config   config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Profiles profiledomain.Repository
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	profiles profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Config,
		db:       p.DB,
		log:      p.Log.Named("auth.service"),
		genID:    p.GenID,
		profiles: p.Profiles,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLen {
		return nil, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &profiledomain.Profile{
		ID:           s.genID.Generate().Int64(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         profiledomain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		profile.DisplayName = &name
	}

	if err := s.profiles.Create(ctx, s.db, profile); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	s.log.Info("account registered", zap.Int64("user_id", profile.ID))
	return s.issue(profile)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(profile)
}

func (s *Service) issue(profile *profiledomain.Profile) (*domain.AuthResponse, error) {
	userID := strconv.FormatInt(profile.ID, 10)
	ttl := time.Duration(s.cfg.AuthTokenTTL) * time.Hour

	signed, err := token.Issue(s.cfg.AuthJWTSecret, ttl, userID, string(profile.Role))
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		Token: signed,
		Profile: profiledomain.ProfileResponse{
			ID:          userID,
			Email:       profile.Email,
			Role:        string(profile.Role),
			DisplayName: profile.DisplayName,
			Points:      profile.Points,
			CreatedAt:   profile.CreatedAt,
		},
	}, nil
}
