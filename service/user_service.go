package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cydxin/moments-sdk/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 最小账号能力：注册、登录、查摘要。
// 完整的账号体系由外部系统负责，这里只为瞬间模块提供
// “已认证身份 + 展示字段”。
type UserService struct {
	*Service

	users  *models.UserDAO
	tokens *TokenService
}

func NewUserService(s *Service) *UserService {
	return &UserService{
		Service: s,
		users:   models.NewUserDAO(s.DB),
		tokens:  NewTokenService(s.RDB),
	}
}

// RegisterReq 注册请求
type RegisterReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

// UserDTO 用户对外结构
type UserDTO struct {
	ID       uint64 `json:"id"`
	UID      string `json:"uid"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

func toUserDTO(u models.User) UserDTO {
	return UserDTO{ID: u.ID, UID: u.UID, Username: u.Username, Nickname: u.Nickname, Avatar: u.Avatar, Role: u.Role}
}

// Register 注册用户，密码 bcrypt 存储
func (s *UserService) Register(req RegisterReq) (UserDTO, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return UserDTO{}, fmt.Errorf("%w: 用户名与密码不能为空", ErrValidation)
	}
	if _, err := s.users.FindByUsername(username); err == nil {
		return UserDTO{}, fmt.Errorf("%w: 用户名已存在", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return UserDTO{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, err
	}

	u := models.User{
		UID:      uuid.NewString(),
		Username: username,
		Nickname: strings.TrimSpace(req.Nickname),
		Password: string(hash),
		Avatar:   strings.TrimSpace(req.Avatar),
		Role:     models.RoleUser,
	}
	if err := s.users.Create(&u); err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(u), nil
}

// Login 校验密码并签发 token（Redis，默认 7 天）
func (s *UserService) Login(ctx context.Context, username, password string) (string, UserDTO, error) {
	u, err := s.users.FindByUsername(strings.TrimSpace(username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", UserDTO{}, fmt.Errorf("%w: 用户名或密码错误", ErrValidation)
	}
	if err != nil {
		return "", UserDTO{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", UserDTO{}, fmt.Errorf("%w: 用户名或密码错误", ErrValidation)
	}

	token, err := s.tokens.GenerateToken()
	if err != nil {
		return "", UserDTO{}, err
	}
	if err := s.tokens.StoreToken(ctx, token, u.ID, 0); err != nil {
		return "", UserDTO{}, err
	}
	return token, toUserDTO(*u), nil
}

// GetUser 查用户摘要
func (s *UserService) GetUser(id uint64) (UserDTO, error) {
	u, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return UserDTO{}, fmt.Errorf("%w: 用户 %d", ErrNotFound, id)
	}
	if err != nil {
		return UserDTO{}, err
	}
	return toUserDTO(*u), nil
}

// IsPrivileged 是否特权角色（可删除任意瞬间）
func (s *UserService) IsPrivileged(id uint64) bool {
	u, err := s.users.FindByID(id)
	if err != nil {
		return false
	}
	return u.Role == models.RoleAdmin || u.Role == models.RoleDeveloper
}
