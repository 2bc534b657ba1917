package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cotizador/internal/model"
	"cotizador/internal/repository"

	"github.com/google/uuid"
)

// ClientInput is the editable part of a client.
type ClientInput struct {
	Name          string
	Lastname      string
	WhatsappPhone string
	Email         string
	RFC           string
	CompanyName   string
	Phone         string
}

type ClientService interface {
	List(ctx context.Context) ([]model.Client, error)
	GetByID(ctx context.Context, clientID string) (*model.Client, error)
	Create(ctx context.Context, in ClientInput, actor model.Actor) (*model.Client, error)
	Update(ctx context.Context, clientID string, in ClientInput, actor model.Actor) (*model.Client, error)
	Delete(ctx context.Context, clientID string) (bool, error)
}

type clientService struct {
	repo repository.ClientRepository
	now  func() time.Time
}

func NewClientService(repo repository.ClientRepository) ClientService {
	return &clientService{repo: repo, now: time.Now}
}

func (s *clientService) defaults() []model.Client {
	now := s.now().UTC()
	seed := func(id, name, lastname, phone, email, rfc, company string) model.Client {
		return model.Client{
			ID: id, Name: name, Lastname: lastname, WhatsappPhone: phone, Phone: phone,
			Email: email, RFC: rfc, CompanyName: company,
			CreatedAt: now, UpdatedAt: now,
			CreatedByUserID: model.SystemUserID, CreatedByName: model.SystemUserName,
			UpdatedByUserID: model.SystemUserID, UpdatedByName: model.SystemUserName,
		}
	}
	return []model.Client{
		seed("cl_001", "Juan", "Garza", "8112345678", "juan.garza@cliente.com", "GAAJ850101AB1", "Constructora del Norte SA de CV"),
		seed("cl_002", "Ana", "Martinez", "8187654321", "ana.martinez@cliente.com", "MARA900220CD2", "Aceros Industriales Monterrey"),
	}
}

// List returns the registry, newest first. An empty registry is seeded with
// the default clients.
func (s *clientService) List(ctx context.Context) ([]model.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	if len(clients) == 0 {
		clients = s.defaults()
		if err := s.repo.ReplaceAll(ctx, clients); err != nil {
			return nil, fmt.Errorf("seed clients: %w", err)
		}
		return clients, nil
	}
	for i := range clients {
		fillAttribution(&clients[i])
	}
	return clients, nil
}

func fillAttribution(c *model.Client) {
	if c.CreatedByUserID == "" {
		c.CreatedByUserID = model.SystemUserID
	}
	if strings.TrimSpace(c.CreatedByName) == "" {
		c.CreatedByName = model.SystemUserName
	}
	if c.UpdatedByUserID == "" {
		c.UpdatedByUserID = c.CreatedByUserID
	}
	if strings.TrimSpace(c.UpdatedByName) == "" {
		c.UpdatedByName = c.CreatedByName
	}
}

// GetByID returns nil when the client does not exist.
func (s *clientService) GetByID(ctx context.Context, clientID string) (*model.Client, error) {
	clients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if clients[i].ID == clientID {
			return &clients[i], nil
		}
	}
	return nil, nil
}

func (s *clientService) Create(ctx context.Context, in ClientInput, actor model.Actor) (*model.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	clients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	userID, name := attribution(actor)
	now := s.now().UTC()
	c := model.Client{
		ID:              "cl_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		CreatedAt:       now,
		CreatedByUserID: userID,
		CreatedByName:   name,
	}
	applyClientInput(&c, in, userID, name, now)
	if err := s.repo.ReplaceAll(ctx, append([]model.Client{c}, clients...)); err != nil {
		return nil, fmt.Errorf("persist client: %w", err)
	}
	return &c, nil
}

// Update returns nil when the client does not exist.
func (s *clientService) Update(ctx context.Context, clientID string, in ClientInput, actor model.Actor) (*model.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}
	clients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	userID, name := attribution(actor)
	for i := range clients {
		if clients[i].ID != clientID {
			continue
		}
		applyClientInput(&clients[i], in, userID, name, s.now().UTC())
		if err := s.repo.ReplaceAll(ctx, clients); err != nil {
			return nil, fmt.Errorf("persist client %s: %w", clientID, err)
		}
		updated := clients[i]
		return &updated, nil
	}
	return nil, nil
}

func (s *clientService) Delete(ctx context.Context, clientID string) (bool, error) {
	clients, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != clientID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(clients) {
		return false, nil
	}
	if err := s.repo.ReplaceAll(ctx, kept); err != nil {
		return false, fmt.Errorf("persist clients: %w", err)
	}
	return true, nil
}

func validateClient(in ClientInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("El nombre del cliente es obligatorio.")
	}
	return nil
}

func applyClientInput(c *model.Client, in ClientInput, userID, name string, now time.Time) {
	c.Name = strings.TrimSpace(in.Name)
	c.Lastname = strings.TrimSpace(in.Lastname)
	c.WhatsappPhone = strings.TrimSpace(in.WhatsappPhone)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.RFC = strings.ToUpper(strings.TrimSpace(in.RFC))
	c.CompanyName = strings.TrimSpace(in.CompanyName)
	c.Phone = strings.TrimSpace(in.Phone)
	c.UpdatedAt = now
	c.UpdatedByUserID = userID
	c.UpdatedByName = name
}
