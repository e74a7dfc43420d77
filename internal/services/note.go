package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

type NoteServiceInterface interface {
	AddNote(ctx context.Context, principal types.Principal, requestID uint64, payload dto.CreateNoteDTO) (*dto.NoteDTO, error)
	ListNotes(ctx context.Context, requestID uint64) ([]dto.NoteDTO, error)
}

type NoteService struct {
	noteRepository    repositories.NoteRepositoryInterface
	requestRepository repositories.MaintenanceRequestRepositoryInterface
	logger            *zap.Logger
}

func NewNoteService(
	noteRepository repositories.NoteRepositoryInterface,
	requestRepository repositories.MaintenanceRequestRepositoryInterface,
	logger *zap.Logger,
) NoteServiceInterface {
	return &NoteService{
		noteRepository:    noteRepository,
		requestRepository: requestRepository,
		logger:            logger,
	}
}

func noteEntityToDTO(n *entities.Note) dto.NoteDTO {
	return dto.NoteDTO{
		ID:           n.ID,
		RequestID:    n.RequestID,
		AuthorUserID: n.AuthorUserID,
		AuthorName:   n.AuthorName,
		Message:      n.Message,
		CreatedAt:    formatTime(n.CreatedAt),
	}
}

func (s *NoteService) AddNote(ctx context.Context, principal types.Principal, requestID uint64, payload dto.CreateNoteDTO) (*dto.NoteDTO, error) {
	message := strings.TrimSpace(payload.Message)
	if message == "" {
		return nil, apperrors.NewValidationError("Текст заметки не может быть пустым")
	}
	if _, err := s.requestRepository.FindByID(ctx, nil, requestID); err != nil {
		return nil, notFoundAs(err, msgRequestNotFound)
	}

	author := principal.UserID
	created, err := s.noteRepository.Create(ctx, nil, entities.Note{
		RequestID:    requestID,
		AuthorUserID: &author,
		Message:      message,
	})
	if err != nil {
		// заявку удалили между проверкой и вставкой
		return nil, notFoundAs(invariantAsNotFound(err), msgRequestNotFound)
	}

	s.logger.Debug("Добавлена заметка", zap.Uint64("requestID", requestID), zap.Uint64("noteID", created.ID))
	out := noteEntityToDTO(created)
	return &out, nil
}

func (s *NoteService) ListNotes(ctx context.Context, requestID uint64) ([]dto.NoteDTO, error) {
	if _, err := s.requestRepository.FindByID(ctx, nil, requestID); err != nil {
		return nil, notFoundAs(err, msgRequestNotFound)
	}
	notes, err := s.noteRepository.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteDTO, 0, len(notes))
	for i := range notes {
		out = append(out, noteEntityToDTO(&notes[i]))
	}
	return out, nil
}
