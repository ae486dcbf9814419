package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"go-doctor-scheduling/config"
	"go-doctor-scheduling/internal/domain/entity"
	"go-doctor-scheduling/internal/infrastructure/cache"
	"go-doctor-scheduling/pkg/jwt"

	"github.com/google/uuid"
)

var roleIDs = map[string]int{
	"admin":   entity.RoleIDAdmin,
	"doctor":  entity.RoleIDDoctor,
	"patient": entity.RoleIDPatient,
}

// IssueToken signs an access token and registers it in Redis so the auth
// middleware accepts it. Tokens are normally minted by the identity service.
func IssueToken(userID uuid.UUID, email, role string) (string, error) {
	roleID, ok := roleIDs[strings.ToLower(role)]
	if !ok {
		return "", fmt.Errorf("unknown role %q", role)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return "", fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()

	jwtService := jwt.NewJWTService(cfg.JWT)
	token, tokenID, err := jwtService.GenerateAccessToken(userID, email, roleID)
	if err != nil {
		return "", err
	}

	key := jwt.AccessTokenKey(userID, tokenID)
	if err := redisClient.Set(context.Background(), key, "valid", jwtService.GetAccessExpiry()).Err(); err != nil {
		return "", fmt.Errorf("failed to register token: %w", err)
	}
	return token, nil
}
