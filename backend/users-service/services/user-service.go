package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"task-tracker/backend/users-service/models"
	"task-tracker/backend/users-service/utils"
	apperrors "task-tracker/backend/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserStore i CompanyStore su apstrakcije nad Mongo repozitorijumima da bi se
// servis mogao testirati bez baze.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Insert(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	Update(ctx context.Context, user *models.User) error
}

type CompanyStore interface {
	GetByName(ctx context.Context, name string) (*models.Company, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	Insert(ctx context.Context, company *models.Company) (primitive.ObjectID, error)
	AddTeam(ctx context.Context, companyID primitive.ObjectID, team models.Team) error
	AddTeamMember(ctx context.Context, companyID primitive.ObjectID, teamName string, memberID primitive.ObjectID) error
}

// InvitePolicy odlučuje da li priloženi invite token daje admin ulogu.
// Ubrizgava se pri konstrukciji umesto čitanja iz okruženja u poslovnoj logici.
type InvitePolicy interface {
	IsAdminInvite(token string) bool
}

type SecretInvitePolicy struct {
	Secret string
}

func (p SecretInvitePolicy) IsAdminInvite(token string) bool {
	return token != "" && p.Secret != "" && token == p.Secret
}

type UserService struct {
	Users        UserStore
	Companies    CompanyStore
	InvitePolicy InvitePolicy
}

func NewUserService(users UserStore, companies CompanyStore, invitePolicy InvitePolicy) *UserService {
	return &UserService{
		Users:        users,
		Companies:    companies,
		InvitePolicy: invitePolicy,
	}
}

type RegisterUserInput struct {
	Name            string
	Email           string
	Password        string
	ProfileImageURL string
	Company         string
	Team            string
	InviteToken     string
}

// RegisterCompany kreira novu kompaniju sa praznom listom timova.
func (s *UserService) RegisterCompany(ctx context.Context, name string) (*models.Company, error) {
	if _, err := s.Companies.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("company already exists: %w", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	company := &models.Company{
		Name:      html.EscapeString(name),
		Teams:     []models.Team{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	id, err := s.Companies.Insert(ctx, company)
	if err != nil {
		return nil, err
	}
	company.ID = id
	return company, nil
}

// RegisterUser registruje korisnika i vezuje ga za tim unutar kompanije.
// Prvi registrovani pod novim imenom tima (admin) postaje njegov vođa.
func (s *UserService) RegisterUser(ctx context.Context, input RegisterUserInput) (*models.User, string, error) {
	company, err := s.Companies.GetByName(ctx, input.Company)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("company not registered: %w", apperrors.ErrNotFound)
		}
		return nil, "", err
	}

	if _, err := s.Users.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", fmt.Errorf("user already exists: %w", apperrors.ErrConflict)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	role := models.RoleMember
	if s.InvitePolicy.IsAdminInvite(input.InviteToken) {
		role = models.RoleAdmin
	}

	if err := s.resolveTeam(company, input.Team, role); err != nil {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		Name:            html.EscapeString(input.Name),
		Email:           html.EscapeString(input.Email),
		Password:        string(hashedPassword),
		ProfileImageURL: input.ProfileImageURL,
		Role:            role,
		Company:         company.ID,
		Team:            input.Team,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	userID, err := s.Users.Insert(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = userID

	if err := s.attachUserToTeam(ctx, company, input.Team, user); err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, company.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return user, token, nil
}

// resolveTeam proverava topologiju tima pre kreiranja naloga: admin mora da
// uvede novo ime tima, a član može da se pridruži samo postojećem timu.
func (s *UserService) resolveTeam(company *models.Company, teamName string, role models.Role) error {
	existing := company.FindTeam(teamName)
	if role == models.RoleAdmin {
		if existing != nil {
			return fmt.Errorf("team already exists, please use a new team name for admin: %w", apperrors.ErrConflict)
		}
		return nil
	}
	if existing == nil {
		return fmt.Errorf("team does not exist, please contact your team lead: %w", apperrors.ErrNotFound)
	}
	return nil
}

// attachUserToTeam upisuje korisnika u topologiju tima: admin osniva tim kao
// vođa i jedini član, dok se član dodaje u postojeću listu članova.
func (s *UserService) attachUserToTeam(ctx context.Context, company *models.Company, teamName string, user *models.User) error {
	if user.Role == models.RoleAdmin {
		team := models.Team{
			Name:    teamName,
			Lead:    user.ID,
			Members: []primitive.ObjectID{user.ID},
		}
		return s.Companies.AddTeam(ctx, company.ID, team)
	}
	return s.Companies.AddTeamMember(ctx, company.ID, teamName, user.ID)
}

// LoginUser vraća korisnika i JWT. Poruka greške je ista za nepostojeći email
// i pogrešnu lozinku da se ne bi otkrivalo koji nalozi postoje.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid email or password: %w", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", apperrors.ErrUnauthorized)
	}

	company, err := s.Companies.GetByID(ctx, user.Company)
	if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, company.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return user, token, nil
}

func (s *UserService) GetUserProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.Users.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateUserProfile menja ime, email i lozinku korisnika. Uloga i tim se ne
// mogu menjati kroz ovaj put.
func (s *UserService) UpdateUserProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*models.User, string, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if input.Name != "" {
		user.Name = html.EscapeString(input.Name)
	}
	if input.Email != "" && input.Email != user.Email {
		if _, err := s.Users.GetByEmail(ctx, input.Email); err == nil {
			return nil, "", fmt.Errorf("email already in use: %w", apperrors.ErrConflict)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", err
		}
		user.Email = html.EscapeString(input.Email)
	}
	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", fmt.Errorf("failed to hash password: %v", err)
		}
		user.Password = string(hashedPassword)
	}
	user.UpdatedAt = time.Now()

	if err := s.Users.Update(ctx, user); err != nil {
		return nil, "", err
	}

	company, err := s.Companies.GetByID(ctx, user.Company)
	if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateToken(user, company.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %v", err)
	}
	return user, token, nil
}

// GetTeamMembers vraća članove tima čiji je vođa prosleđeni korisnik.
func (s *UserService) GetTeamMembers(ctx context.Context, leadID primitive.ObjectID) ([]models.TeamMember, error) {
	lead, err := s.Users.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}

	company, err := s.Companies.GetByID(ctx, lead.Company)
	if err != nil {
		return nil, err
	}

	team := company.TeamLedBy(leadID)
	if team == nil {
		return nil, fmt.Errorf("user %s leads no team: %w", leadID.Hex(), apperrors.ErrNotFound)
	}

	users, err := s.Users.GetByIDs(ctx, team.Members)
	if err != nil {
		return nil, err
	}

	members := make([]models.TeamMember, 0, len(users))
	for _, user := range users {
		members = append(members, user.AsTeamMember())
	}
	return members, nil
}
