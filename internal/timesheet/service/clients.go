package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clockleaf/timesheet/internal/timesheet/domain"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/pkg/idx"
	"github.com/clockleaf/timesheet/pkg/slogx"
)

var (
	ErrInvalidClient   = errors.New("client name and a valid type are required")
	ErrDuplicateClient = errors.New("a client with this name already exists")
	ErrDuplicateITN    = errors.New("a client with this tax id already exists")
	ErrClientNotFound  = errors.New("client not found")
)

type ClientService struct {
	Store store.Store
}

func (s *ClientService) CreateClient(ctx context.Context, name string, typ domain.ClientType, itn string) (domain.Client, error) {
	log := slogx.FromContext(ctx)

	if domain.NormalizeName(name) == "" || !typ.Valid() {
		return domain.Client{}, ErrInvalidClient
	}
	if err := s.checkDuplicates(ctx, name, itn, ""); err != nil {
		return domain.Client{}, err
	}

	client := domain.Client{
		ID:   idx.New().String(),
		Name: name,
		Type: typ,
		ITN:  itn,
	}
	if err := s.Store.Clients().CreateClient(ctx, client); err != nil {
		// The unique indexes back the normalized check under concurrency.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Client{}, ErrDuplicateClient
		}
		log.Error("failed to create client", slog.Any("error", err))
		return domain.Client{}, err
	}

	log.Info("client created", slog.String("client_id", client.ID))
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, id string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Client{}, ErrClientNotFound
	}
	return client, err
}

func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.Store.Clients().ListClients(ctx)
}

// UpdateClientParams follow PATCH semantics: nil means keep.
type UpdateClientParams struct {
	Name *string
	Type *domain.ClientType
	ITN  *string
}

func (s *ClientService) UpdateClient(ctx context.Context, id string, p UpdateClientParams) (domain.Client, error) {
	log := slogx.FromContext(ctx)

	client, err := s.GetClient(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}

	applyString(&client.Name, p.Name)
	applyString(&client.ITN, p.ITN)
	if p.Type != nil {
		client.Type = *p.Type
	}

	if domain.NormalizeName(client.Name) == "" || !client.Type.Valid() {
		return domain.Client{}, ErrInvalidClient
	}
	if err := s.checkDuplicates(ctx, client.Name, client.ITN, client.ID); err != nil {
		return domain.Client{}, err
	}

	if err := s.Store.Clients().UpdateClient(ctx, client); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Client{}, ErrDuplicateClient
		case errors.Is(err, store.ErrNotFound):
			return domain.Client{}, ErrClientNotFound
		}
		log.Error("failed to update client", slog.String("client_id", id), slog.Any("error", err))
		return domain.Client{}, err
	}
	return client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	err := s.Store.Clients().DeleteClient(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrClientNotFound
	}
	return err
}

// checkDuplicates runs the case/whitespace-insensitive name check and the
// tax-id check, skipping the row being updated.
func (s *ClientService) checkDuplicates(ctx context.Context, name, itn, selfID string) error {
	existing, err := s.Store.Clients().FindClientByNormalizedName(ctx, domain.NormalizeName(name))
	switch {
	case err == nil && existing.ID != selfID:
		return ErrDuplicateClient
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return err
	}

	if itn == "" {
		return nil
	}
	existing, err = s.Store.Clients().FindClientByITN(ctx, itn)
	switch {
	case err == nil && existing.ID != selfID:
		return ErrDuplicateITN
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return err
	}
	return nil
}
