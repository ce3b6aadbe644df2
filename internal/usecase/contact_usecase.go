package usecase

import (
	"context"
	"net/http"
	"strings"

	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"go.uber.org/zap"
)

type ContactValidator interface {
	ValidateContact(in ContactInput) error
}

type ContactUsecase struct {
	contacts  repo.ContactRepository
	validator ContactValidator
	logger    *zap.Logger
}

func NewContactUsecase(contacts repo.ContactRepository, validator ContactValidator, logger *zap.Logger) *ContactUsecase {
	return &ContactUsecase{contacts: contacts, validator: validator, logger: logger}
}

type ContactInput struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Service string
	Message string
}

func (u *ContactUsecase) Submit(ctx context.Context, in ContactInput) (model.ContactSubmission, error) {
	if err := u.validator.ValidateContact(in); err != nil {
		return model.ContactSubmission{}, err
	}
	saved, err := u.contacts.Create(ctx, model.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Company: optionalString(in.Company),
		Phone:   optionalString(in.Phone),
		Service: optionalString(in.Service),
		Message: strings.TrimSpace(in.Message),
	})
	if err != nil {
		u.logger.Error("save contact submission failed", zap.Error(err))
		return model.ContactSubmission{}, NewHTTPError(http.StatusInternalServerError, "Failed to send message. Please try again.")
	}
	return saved, nil
}
