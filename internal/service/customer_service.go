package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"gorm.io/gorm"

	"github.com/hellojanelle05/AquaShopV.0/internal/auth"
	"github.com/hellojanelle05/AquaShopV.0/internal/config"
	"github.com/hellojanelle05/AquaShopV.0/internal/datamodels/customer"
)

// CustomerService 注册 / 登录，登录成功后签发 JWT
type CustomerService struct {
	repo customer.Repository
	jwt  *config.JWTConfig
}

func NewCustomerService(repo customer.Repository, jwt *config.JWTConfig) *CustomerService {
	return &CustomerService{repo: repo, jwt: jwt}
}

func hashPassword(raw, salt string) string {
	h := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(h[:])
}

// Register 注册新顾客，邮箱重复会由唯一索引拒绝
func (s *CustomerService) Register(ctx context.Context, email, username, password string) (*customer.Customer, error) {
	if email == "" || username == "" || password == "" {
		return nil, ErrValidation
	}
	c := &customer.Customer{
		Email:    email,
		Username: username,
		Salt:     "aquashop", // 简化实现，真实业务请使用随机盐
	}
	c.PasswordHash = hashPassword(password, c.Salt)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Login 校验密码并返回 JWT，claims 中带 IsAdmin 供后台路由判断
func (s *CustomerService) Login(ctx context.Context, email, password string) (string, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if hashPassword(password, c.Salt) != c.PasswordHash {
		return "", errors.New("invalid password")
	}
	return auth.GenerateToken(s.jwt, c.ID, c.Username, c.IsAdmin)
}
