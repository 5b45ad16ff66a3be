package services

import (
	"errors"
	"strings"

	"github.com/raulgonca/projectsync/errs"
	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/repositories"
)

type ClientService struct {
	Clients repositories.ClientRepository
}

func NewClientService(clients repositories.ClientRepository) *ClientService {
	return &ClientService{Clients: clients}
}

func (s *ClientService) GetClient(id uint) (*models.Client, error) {
	client, err := s.Clients.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, errs.NotFound("client not found")
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) ListClients() ([]models.Client, error) {
	return s.Clients.FindAll()
}

type ClientInput struct {
	Name  *string `json:"name"`
	CIF   *string `json:"cif"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Web   *string `json:"web"`
}

func (s *ClientService) CreateClient(in ClientInput) (*models.Client, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" || in.CIF == nil || strings.TrimSpace(*in.CIF) == "" {
		return nil, errs.Validation("missing required fields (name, cif)")
	}

	client := &models.Client{
		Name: strings.TrimSpace(*in.Name),
		CIF:  strings.TrimSpace(*in.CIF),
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Web != nil {
		client.Web = *in.Web
	}

	if err := s.checkUnique(client.Name, client.CIF, 0); err != nil {
		return nil, err
	}
	if err := s.Clients.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) UpdateClient(id uint, in ClientInput) (*models.Client, error) {
	client, err := s.GetClient(id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		existing, err := s.Clients.FindByName(*in.Name)
		if err == nil && existing.ID != client.ID {
			return nil, errs.Conflict("a client with that name already exists")
		} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, err
		}
		client.Name = *in.Name
	}
	if in.CIF != nil {
		existing, err := s.Clients.FindByCIF(*in.CIF)
		if err == nil && existing.ID != client.ID {
			return nil, errs.Conflict("a client with that CIF already exists")
		} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, err
		}
		client.CIF = *in.CIF
	}
	if in.Email != nil {
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Web != nil {
		client.Web = *in.Web
	}

	if err := s.Clients.Save(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) DeleteClient(id uint) error {
	if _, err := s.GetClient(id); err != nil {
		return err
	}
	return s.Clients.Delete(id)
}

func (s *ClientService) checkUnique(name, cif string, selfID uint) error {
	if existing, err := s.Clients.FindByName(name); err == nil && existing.ID != selfID {
		return errs.Conflict("a client with that name already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return err
	}
	if existing, err := s.Clients.FindByCIF(cif); err == nil && existing.ID != selfID {
		return errs.Conflict("a client with that CIF already exists")
	} else if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return err
	}
	return nil
}
