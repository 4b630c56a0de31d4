package startups

import (
	"context"
	"errors"
	"fmt"
	"log"

	"launchdir/pkg/audit"
	"launchdir/pkg/sendemail"
	"launchdir/pkg/slug"
	"launchdir/pkg/users"
)

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrForbidden     = errors.New("forbidden")
)

type StartupService interface {
	CreateStartup(ctx context.Context, input Startup) (Startup, error)
	UpdateStartup(ctx context.Context, actorUUID string, input Startup) (Startup, error)
	SetStatus(ctx context.Context, id int64, newStatus, actorUUID string, asAdmin bool) (Startup, error)
	DeleteStartup(ctx context.Context, id int64, actorUUID string) error
	GetStartupByID(ctx context.Context, id int64) (Startup, error)
	GetStartupBySlug(ctx context.Context, slugValue string) (Startup, error)
	ListStartups(ctx context.Context, status string, page, limit int) ([]Startup, int64, error)
	ListStartupsByOwner(ctx context.Context, ownerUUID string) ([]Startup, error)
}

type startupService struct {
	repo       StartupRepository
	userRepo   users.UserRepository
	auditLog   audit.Recorder
	email      sendemail.EmailService
	adminEmail string
}

func NewStartupService(repo StartupRepository, userRepo users.UserRepository, auditLog audit.Recorder, email sendemail.EmailService, adminEmail string) StartupService {
	return &startupService{
		repo:       repo,
		userRepo:   userRepo,
		auditLog:   auditLog,
		email:      email,
		adminEmail: adminEmail,
	}
}

// CreateStartup assigns a unique slug derived from the name and persists the
// record as pending. Client-supplied slug or status values are ignored.
func (s *startupService) CreateStartup(ctx context.Context, input Startup) (Startup, error) {
	if _, err := s.userRepo.GetUserByUUID(ctx, input.OwnerUUID); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return Startup{}, errors.New("owner does not exist")
		}
		return Startup{}, err
	}

	assigned, err := slug.GenerateUnique(ctx, s.repo, input.Name, 0)
	if err != nil {
		return Startup{}, err
	}

	input.Slug = assigned
	input.Status = StatusPending

	created, err := s.repo.CreateStartup(ctx, input)
	if err != nil {
		return Startup{}, err
	}

	s.appendAudit(ctx, created.OwnerUUID, "create", created.ID, "slug="+created.Slug)

	return created, nil
}

// UpdateStartup lets the owner edit display fields. The slug stays as
// assigned at creation and the moderation status is untouched.
func (s *startupService) UpdateStartup(ctx context.Context, actorUUID string, input Startup) (Startup, error) {
	current, err := s.repo.GetStartupByID(ctx, input.ID)
	if err != nil {
		return Startup{}, err
	}
	if current.OwnerUUID != actorUUID {
		return Startup{}, ErrForbidden
	}

	updated, err := s.repo.UpdateStartup(ctx, input)
	if err != nil {
		return Startup{}, err
	}

	s.appendAudit(ctx, actorUUID, "update", updated.ID, "")

	return updated, nil
}

// SetStatus applies a moderation transition. In owner mode the actor must own
// the record; in admin mode the actor must hold the admin role. The audit
// entry and the approval notification are best-effort: their failures are
// logged and never roll back the transition.
func (s *startupService) SetStatus(ctx context.Context, id int64, newStatus, actorUUID string, asAdmin bool) (Startup, error) {
	if !IsValidStatus(newStatus) {
		return Startup{}, ErrInvalidStatus
	}

	current, err := s.repo.GetStartupByID(ctx, id)
	if err != nil {
		return Startup{}, err
	}

	actor, err := s.userRepo.GetUserByUUID(ctx, actorUUID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return Startup{}, ErrForbidden
		}
		return Startup{}, err
	}

	if asAdmin {
		if actor.Role != users.RoleAdmin {
			return Startup{}, ErrForbidden
		}
	} else if actor.UUID != current.OwnerUUID {
		return Startup{}, ErrForbidden
	}

	updated, err := s.repo.SetStatus(ctx, id, newStatus)
	if err != nil {
		return Startup{}, err
	}

	s.appendAudit(ctx, actorUUID, "set_status_"+newStatus, id, "previous="+current.Status)

	if newStatus == StatusApproved {
		s.notifyApproved(updated)
	}

	return updated, nil
}

func (s *startupService) DeleteStartup(ctx context.Context, id int64, actorUUID string) error {
	current, err := s.repo.GetStartupByID(ctx, id)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetUserByUUID(ctx, actorUUID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return ErrForbidden
		}
		return err
	}
	if actor.UUID != current.OwnerUUID && actor.Role != users.RoleAdmin {
		return ErrForbidden
	}

	if err := s.repo.DeleteStartup(ctx, id); err != nil {
		return err
	}

	s.appendAudit(ctx, actorUUID, "delete", id, "")

	return nil
}

func (s *startupService) GetStartupByID(ctx context.Context, id int64) (Startup, error) {
	return s.repo.GetStartupByID(ctx, id)
}

func (s *startupService) GetStartupBySlug(ctx context.Context, slugValue string) (Startup, error) {
	return s.repo.GetStartupBySlug(ctx, slugValue)
}

func (s *startupService) ListStartups(ctx context.Context, status string, page, limit int) ([]Startup, int64, error) {
	if status != "" && !IsValidStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.repo.ListStartups(ctx, status, limit, offset)
}

func (s *startupService) ListStartupsByOwner(ctx context.Context, ownerUUID string) ([]Startup, error) {
	return s.repo.ListStartupsByOwner(ctx, ownerUUID)
}

func (s *startupService) appendAudit(ctx context.Context, actorUUID, action string, entityID int64, details string) {
	err := s.auditLog.Append(ctx, audit.Entry{
		ActorUUID: actorUUID,
		Action:    action,
		Entity:    "startup",
		EntityID:  entityID,
		Details:   details,
	})
	if err != nil {
		log.Printf("audit append failed (action=%s startup=%d): %v", action, entityID, err)
	}
}

func (s *startupService) notifyApproved(st Startup) {
	if s.adminEmail == "" {
		return
	}

	subject := fmt.Sprintf("Startup approved: %s", st.Name)
	plain := fmt.Sprintf("Startup %q (slug %s, id %d) is now publicly listed.", st.Name, st.Slug, st.ID)
	html := fmt.Sprintf("<p>Startup <strong>%s</strong> (slug <code>%s</code>, id %d) is now publicly listed.</p>", st.Name, st.Slug, st.ID)

	if err := s.email.SendEmail(subject, s.adminEmail, plain, html); err != nil {
		log.Printf("approval notification failed for startup %d: %v", st.ID, err)
	}
}
