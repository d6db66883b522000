// internal/app/membership/engine.go

// Package membership is the authorization engine gating every mutation of
// organization membership: create, invite, remove, role change, ownership
// transfer, and the account/organization lifecycle operations built on
// them. It enforces role hierarchy, plan seat limits, and the last-admin
// guard, and leaves the directory consistent after every operation.
//
// The engine holds no request state; every call carries the caller's uid
// explicitly. Collaborators are passed in as narrow interfaces so the
// decision logic is testable without Mongo, SMTP, or a live identity
// provider.
package membership

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/restok/internal/app/store/audit"
	"github.com/dalemusser/restok/internal/app/store/setuptokens"
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/dalemusser/restok/internal/app/system/mailer"
	"github.com/dalemusser/restok/internal/app/system/normalize"
	"github.com/dalemusser/restok/internal/app/system/plans"
	"github.com/dalemusser/restok/internal/domain/models"
	"go.uber.org/zap"
)

// TokenStore issues and redeems single-use password-setup tokens.
// Satisfied by *setuptokens.Store.
type TokenStore interface {
	Create(ctx context.Context, uid, email string) (string, error)
	Peek(ctx context.Context, token string) (*setuptokens.Token, error)
	Delete(ctx context.Context, token string) error
	DeleteByUID(ctx context.Context, uid string) error
	Expiry() time.Duration
}

// AuditRecorder appends audit events. Satisfied by *auditlog.Logger.
type AuditRecorder interface {
	Record(ctx context.Context, e audit.Event)
}

// Config holds the values the engine needs to render invite links.
type Config struct {
	SiteName string
	BaseURL  string // e.g. https://app.restok.io
}

// Engine applies membership mutations.
type Engine struct {
	dir    Directory
	ids    identity.Provider
	tokens TokenStore
	mail   mailer.Sender
	audit  AuditRecorder
	log    *zap.Logger
	cfg    Config
}

// NewEngine wires an Engine from its collaborators.
func NewEngine(dir Directory, ids identity.Provider, tokens TokenStore,
	mail mailer.Sender, auditor AuditRecorder, logger *zap.Logger, cfg Config) *Engine {
	return &Engine{
		dir:    dir,
		ids:    ids,
		tokens: tokens,
		mail:   mail,
		audit:  auditor,
		log:    logger,
		cfg:    cfg,
	}
}

// Member returns uid's membership record, or ErrNoOrganization when the
// account exists but is unaffiliated.
func (e *Engine) Member(ctx context.Context, uid string) (*models.User, error) {
	u, err := e.dir.User(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u.OrganizationID == nil {
		return nil, ErrNoOrganization
	}
	return u, nil
}

// Members lists an organization's members for a caller who belongs to it.
// Any role may read the roster.
func (e *Engine) Members(ctx context.Context, callerID, orgID string) ([]models.User, error) {
	caller, err := e.dir.User(ctx, callerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNotAMember
		}
		return nil, err
	}
	if caller.OrganizationID == nil || *caller.OrganizationID != orgID {
		return nil, ErrNotAMember
	}
	return e.dir.Members(ctx, orgID)
}

// CreateMember provisions an identity with the supplied password and adds
// it to the organization as a member. The caller must be the org's owner
// or an admin, and the plan must have a free seat.
func (e *Engine) CreateMember(ctx context.Context, callerID, orgID, email, password string) (string, error) {
	email = normalize.Email(email)

	org, err := e.authorizeManager(ctx, callerID, orgID)
	if err != nil {
		return "", err
	}
	if err := e.checkSeat(ctx, org); err != nil {
		return "", err
	}
	if err := e.checkEmailFree(ctx, email); err != nil {
		return "", err
	}

	uid, err := e.ids.Create(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return "", ErrUserAlreadyExists
		}
		return "", fmt.Errorf("create identity: %w", err)
	}

	if err := e.insertMember(ctx, org, uid, email, false); err != nil {
		e.rollbackIdentity(ctx, uid)
		return "", err
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventMemberCreated,
		OrganizationID: org.ID,
		UID:            uid,
		ActorID:        callerID,
		Success:        true,
		Details:        map[string]string{"email": email},
	})
	return uid, nil
}

// InviteMember provisions a disabled identity, adds it to the organization
// as a member, and mails the invitee a time-boxed password-setup link. The
// whole sequence is compensated: any failure after identity creation
// removes everything created so far, so a failed invite can simply be
// retried.
func (e *Engine) InviteMember(ctx context.Context, callerID, orgID, email string) (string, error) {
	email = normalize.Email(email)

	org, err := e.authorizeManager(ctx, callerID, orgID)
	if err != nil {
		return "", err
	}
	if err := e.checkSeat(ctx, org); err != nil {
		return "", err
	}
	if err := e.checkEmailFree(ctx, email); err != nil {
		return "", err
	}

	// Adding an existing account to a second org is not supported.
	taken, err := e.ids.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("identity lookup: %w", err)
	}
	if taken {
		return "", ErrUserAlreadyExists
	}

	// Empty password creates the account disabled; completing setup
	// enables it.
	uid, err := e.ids.Create(ctx, email, "")
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return "", ErrUserAlreadyExists
		}
		return "", fmt.Errorf("create identity: %w", err)
	}

	if err := e.insertMember(ctx, org, uid, email, true); err != nil {
		e.rollbackIdentity(ctx, uid)
		return "", err
	}

	token, err := e.tokens.Create(ctx, uid, email)
	if err != nil {
		e.rollbackMember(ctx, uid)
		return "", fmt.Errorf("issue setup token: %w", err)
	}

	invite := mailer.BuildInviteEmail(mailer.InviteEmailData{
		SiteName:  e.cfg.SiteName,
		OrgName:   org.Name,
		SetupLink: e.setupLink(token),
		ExpiresIn: expiryText(e.tokens.Expiry()),
	})
	invite.To = email
	if err := e.mail.Send(invite); err != nil {
		if derr := e.tokens.DeleteByUID(ctx, uid); derr != nil {
			e.log.Warn("setup token cleanup failed", zap.String("uid", uid), zap.Error(derr))
		}
		e.rollbackMember(ctx, uid)
		return "", fmt.Errorf("send invite email: %w", err)
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventMemberInvited,
		OrganizationID: org.ID,
		UID:            uid,
		ActorID:        callerID,
		Success:        true,
		Details:        map[string]string{"email": email},
	})
	return uid, nil
}

// RemoveMember deletes a member's record and identity. The owner cannot be
// removed, nobody can remove themself, and the organization must keep at
// least one admin or owner.
func (e *Engine) RemoveMember(ctx context.Context, callerID, targetUID string) error {
	if targetUID == callerID {
		return ErrCannotRemoveSelf
	}

	target, err := e.dir.User(ctx, targetUID)
	if err != nil {
		return err
	}
	if target.OrganizationID == nil {
		return ErrNoOrganization
	}
	orgID := *target.OrganizationID

	org, err := e.authorizeManager(ctx, callerID, orgID)
	if err != nil {
		return err
	}

	if target.Role == models.RoleOwner || org.OwnerID == targetUID {
		return ErrCannotRemoveOwner
	}
	if target.Role.Privileged() {
		n, err := e.dir.PrivilegedCount(ctx, orgID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return ErrMustRetainOneAdmin
		}
	}

	if err := e.tokens.DeleteByUID(ctx, targetUID); err != nil {
		e.log.Warn("setup token cleanup failed", zap.String("uid", targetUID), zap.Error(err))
	}
	if err := e.dir.DeleteUser(ctx, targetUID); err != nil {
		return err
	}

	details := map[string]string{"email": target.Email, "role": string(target.Role)}
	// The record is already gone, so an identity-deletion failure cannot
	// be rolled back; it is logged and audited for operator retry.
	if err := e.ids.Delete(ctx, targetUID); err != nil {
		e.log.Error("identity deletion failed after record removal",
			zap.String("uid", targetUID), zap.Error(err))
		details["identity_delete_error"] = err.Error()
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventMemberRemoved,
		OrganizationID: orgID,
		UID:            targetUID,
		ActorID:        callerID,
		Success:        true,
		Details:        details,
	})
	return nil
}

// ChangeRole moves a member between admin and member. The owner role never
// changes here; that is ownership transfer. Demotions honor the last-admin
// guard, which also stops a sole admin from demoting themself.
func (e *Engine) ChangeRole(ctx context.Context, callerID, targetUID string, newRole models.Role) error {
	if newRole != models.RoleAdmin && newRole != models.RoleMember {
		return ErrInvalidRole
	}

	target, err := e.dir.User(ctx, targetUID)
	if err != nil {
		return err
	}
	if target.OrganizationID == nil {
		return ErrNoOrganization
	}
	orgID := *target.OrganizationID

	org, err := e.authorizeManager(ctx, callerID, orgID)
	if err != nil {
		return err
	}

	if target.Role == models.RoleOwner || org.OwnerID == targetUID {
		return ErrCannotModifyOwner
	}
	if newRole == models.RoleMember && target.Role.Privileged() {
		n, err := e.dir.PrivilegedCount(ctx, orgID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return ErrMustRetainOneAdmin
		}
	}

	if err := e.dir.SetUserRole(ctx, targetUID, newRole); err != nil {
		return err
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventRoleChanged,
		OrganizationID: orgID,
		UID:            targetUID,
		ActorID:        callerID,
		Success:        true,
		Details:        map[string]string{"from": string(target.Role), "to": string(newRole)},
	})
	return nil
}

// TransferOwnership makes newOwnerUID the organization's owner and demotes
// the previous owner to admin. Three records change; they change as one
// transaction. The new owner must already belong to the organization.
func (e *Engine) TransferOwnership(ctx context.Context, actorID, orgID, newOwnerUID string) error {
	org, err := e.dir.Org(ctx, orgID)
	if err != nil {
		return err
	}
	newOwner, err := e.dir.User(ctx, newOwnerUID)
	if err != nil {
		return err
	}
	if newOwner.OrganizationID == nil {
		return ErrMissingOrg
	}
	if *newOwner.OrganizationID != orgID {
		return ErrOrgInvalid
	}
	if org.OwnerID == newOwnerUID {
		return ErrAlreadyOwner
	}

	prevOwnerID := org.OwnerID
	err = e.dir.InTransaction(ctx, func(txCtx context.Context) error {
		if err := e.dir.SetUserRole(txCtx, prevOwnerID, models.RoleAdmin); err != nil {
			return err
		}
		if err := e.dir.SetUserRole(txCtx, newOwnerUID, models.RoleOwner); err != nil {
			return err
		}
		return e.dir.SetOrgOwner(txCtx, orgID, newOwnerUID)
	})
	if err != nil {
		return err
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOwnershipTransferred,
		OrganizationID: orgID,
		UID:            newOwnerUID,
		ActorID:        actorID,
		Success:        true,
		Details:        map[string]string{"from": prevOwnerID, "to": newOwnerUID},
	})
	return nil
}

// ProvisionOrg creates an identity, an organization owned by it, and the
// owner's membership record. Used by the internal provisioning endpoint
// for test and enterprise accounts. Returns the new owner's uid.
func (e *Engine) ProvisionOrg(ctx context.Context, actorID, email, password, orgName, plan string) (string, error) {
	email = normalize.Email(email)
	if plan == "" {
		plan = plans.Basic
	}
	if !plans.Valid(plan) {
		return "", ErrInvalidPlan
	}
	if err := e.checkEmailFree(ctx, email); err != nil {
		return "", err
	}

	taken, err := e.ids.ExistsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("identity lookup: %w", err)
	}
	if taken {
		return "", ErrUserAlreadyExists
	}

	uid, err := e.ids.Create(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return "", ErrUserAlreadyExists
		}
		return "", fmt.Errorf("create identity: %w", err)
	}

	orgID := uid // one org per initial owner; the org id is the owner's uid
	err = e.dir.InTransaction(ctx, func(txCtx context.Context) error {
		if err := e.dir.CreateOrg(txCtx, models.Organization{
			ID:      orgID,
			OwnerID: uid,
			Plan:    plan,
			Name:    orgName,
		}); err != nil {
			return err
		}
		return e.dir.CreateUser(txCtx, models.User{
			ID:             uid,
			Email:          email,
			OrganizationID: &orgID,
			Role:           models.RoleOwner,
		})
	})
	if err != nil {
		e.rollbackIdentity(ctx, uid)
		return "", err
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventOrgProvisioned,
		OrganizationID: orgID,
		UID:            uid,
		ActorID:        actorID,
		Success:        true,
		Details:        map[string]string{"email": email, "plan": plan, "name": orgName},
	})
	return uid, nil
}

// SetPlan applies an administrative plan override. A downgrade never
// evicts members; seats above the new limit persist until members leave.
func (e *Engine) SetPlan(ctx context.Context, actorID, orgID, plan string) error {
	return e.setPlan(ctx, orgID, plan, audit.CategoryAdmin, actorID, nil)
}

// ApplySubscriptionPlan applies a plan change driven by a billing
// subscription event.
func (e *Engine) ApplySubscriptionPlan(ctx context.Context, orgID, plan, subscriptionID string) error {
	return e.setPlan(ctx, orgID, plan, audit.CategoryBilling, "",
		map[string]string{"subscription_id": subscriptionID})
}

func (e *Engine) setPlan(ctx context.Context, orgID, plan, category, actorID string, extra map[string]string) error {
	if !plans.Valid(plan) {
		return ErrInvalidPlan
	}
	org, err := e.dir.Org(ctx, orgID)
	if err != nil {
		return err
	}
	if err := e.dir.SetOrgPlan(ctx, orgID, plan); err != nil {
		return err
	}

	details := map[string]string{"from": org.Plan, "to": plan}
	for k, v := range extra {
		details[k] = v
	}
	e.audit.Record(ctx, audit.Event{
		Category:       category,
		EventType:      audit.EventPlanChanged,
		OrganizationID: orgID,
		ActorID:        actorID,
		Success:        true,
		Details:        details,
	})
	return nil
}

// DeleteAccount removes an account via the internal deletion path. An
// owner's account can only go when the owner is the organization's sole
// member, in which case the organization goes with it; otherwise ownership
// must be transferred first. The last-admin guard applies to admins.
func (e *Engine) DeleteAccount(ctx context.Context, actorID, uid string) error {
	user, err := e.dir.User(ctx, uid)
	if err != nil {
		return err
	}

	var orgDeleted bool
	var orgID string
	if user.OrganizationID != nil {
		orgID = *user.OrganizationID
		org, err := e.dir.Org(ctx, orgID)
		switch {
		case errors.Is(err, ErrOrgNotFound):
			// Dangling affiliation; just remove the record below.
			if err := e.dir.DeleteUser(ctx, uid); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			n, err := e.dir.MemberCount(ctx, orgID)
			if err != nil {
				return err
			}
			isOwner := org.OwnerID == uid || user.Role == models.RoleOwner
			switch {
			case isOwner && n > 1:
				return ErrCannotRemoveOwner
			case isOwner:
				// Sole member: the organization goes with the account.
				err := e.dir.InTransaction(ctx, func(txCtx context.Context) error {
					if err := e.dir.DeleteUser(txCtx, uid); err != nil {
						return err
					}
					return e.dir.DeleteOrg(txCtx, orgID)
				})
				if err != nil {
					return err
				}
				orgDeleted = true
			case user.Role.Privileged():
				p, err := e.dir.PrivilegedCount(ctx, orgID)
				if err != nil {
					return err
				}
				if p <= 1 && n > 1 {
					return ErrMustRetainOneAdmin
				}
				if err := e.dir.DeleteUser(ctx, uid); err != nil {
					return err
				}
			default:
				if err := e.dir.DeleteUser(ctx, uid); err != nil {
					return err
				}
			}
		}
	} else {
		if err := e.dir.DeleteUser(ctx, uid); err != nil {
			return err
		}
	}

	if err := e.tokens.DeleteByUID(ctx, uid); err != nil {
		e.log.Warn("setup token cleanup failed", zap.String("uid", uid), zap.Error(err))
	}

	details := map[string]string{"email": user.Email}
	if err := e.ids.Delete(ctx, uid); err != nil {
		e.log.Error("identity deletion failed after record removal",
			zap.String("uid", uid), zap.Error(err))
		details["identity_delete_error"] = err.Error()
	}

	e.audit.Record(ctx, audit.Event{
		Category:       audit.CategoryAdmin,
		EventType:      audit.EventAccountDeleted,
		OrganizationID: orgID,
		UID:            uid,
		ActorID:        actorID,
		Success:        true,
		Details:        details,
	})
	if orgDeleted {
		e.audit.Record(ctx, audit.Event{
			Category:       audit.CategoryAdmin,
			EventType:      audit.EventOrgDeleted,
			OrganizationID: orgID,
			ActorID:        actorID,
			Success:        true,
		})
	}
	return nil
}

// CompleteSignup redeems a setup token: sets the invitee's password,
// enables the account, and consumes the token. An expired or unknown token
// is rejected without touching the identity, and an expired token is left
// in place for the TTL reaper rather than deleted.
func (e *Engine) CompleteSignup(ctx context.Context, token, password string) error {
	tok, err := e.peekToken(ctx, token)
	if err != nil {
		return err
	}

	if err := e.ids.SetPassword(ctx, tok.UID, password); err != nil {
		// Token survives so the invitee can retry.
		return fmt.Errorf("set password: %w", err)
	}

	// The identity is now enabled; clear the record's mirror flag.
	if err := e.dir.SetUserDisabled(ctx, tok.UID, false); err != nil {
		e.log.Warn("disabled flag not cleared after signup",
			zap.String("uid", tok.UID), zap.Error(err))
	}

	// Consumed exactly once; deletion is unconditional after success.
	if err := e.tokens.Delete(ctx, token); err != nil {
		e.log.Error("consumed setup token not deleted",
			zap.String("uid", tok.UID), zap.Error(err))
	}

	e.audit.Record(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignupCompleted,
		UID:       tok.UID,
		Success:   true,
	})
	return nil
}

// ValidateToken checks a setup token's existence and expiry without
// consuming it, so the setup page can reject dead links before asking for
// a password.
func (e *Engine) ValidateToken(ctx context.Context, token string) error {
	tok, err := e.peekToken(ctx, token)
	if err != nil {
		return err
	}
	e.audit.Record(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSetupTokenValidated,
		UID:       tok.UID,
		Success:   true,
	})
	return nil
}

func (e *Engine) peekToken(ctx context.Context, token string) (*setuptokens.Token, error) {
	tok, err := e.tokens.Peek(ctx, token)
	switch {
	case err == nil:
		return tok, nil
	case errors.Is(err, setuptokens.ErrExpired):
		e.auditTokenRejected(ctx, tok, "expired")
		return nil, ErrTokenExpired
	case errors.Is(err, setuptokens.ErrNotFound):
		e.auditTokenRejected(ctx, nil, "not_found")
		return nil, ErrTokenInvalid
	default:
		return nil, err
	}
}

func (e *Engine) auditTokenRejected(ctx context.Context, tok *setuptokens.Token, reason string) {
	event := audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSetupTokenRejected,
		Success:       false,
		FailureReason: reason,
	}
	if tok != nil {
		event.UID = tok.UID
	}
	e.audit.Record(ctx, event)
}

// authorizeManager resolves the caller against the target organization:
// the caller must belong to it with an owner or admin role, and the
// organization must exist. Returns the organization on success.
func (e *Engine) authorizeManager(ctx context.Context, callerID, orgID string) (*models.Organization, error) {
	caller, err := e.dir.User(ctx, callerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNotAMember
		}
		return nil, err
	}
	if caller.OrganizationID == nil || *caller.OrganizationID != orgID {
		return nil, ErrNotAMember
	}
	if !caller.Role.Privileged() {
		return nil, ErrInsufficientRole
	}
	return e.dir.Org(ctx, orgID)
}

// checkEmailFree rejects an email that already belongs to a membership
// record. The directory is checked before the identity provider: a stale
// record must block reuse of its email even when the provider side of a
// prior removal was compensated away.
func (e *Engine) checkEmailFree(ctx context.Context, email string) error {
	_, err := e.dir.UserByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrUserAlreadyExists
	case errors.Is(err, ErrUserNotFound):
		return nil
	default:
		return err
	}
}

// checkSeat is the fast-path seat check run before any identity is
// created. The authoritative check re-runs inside insertMember's
// transaction.
func (e *Engine) checkSeat(ctx context.Context, org *models.Organization) error {
	limit := plans.Limit(org.Plan)
	if limit.Unlimited {
		return nil
	}
	n, err := e.dir.MemberCount(ctx, org.ID)
	if err != nil {
		return err
	}
	if !limit.Allows(n) {
		return ErrSeatLimitReached
	}
	return nil
}

// insertMember re-counts seats and inserts the membership record in one
// transaction, so two concurrent adds near the limit cannot both land.
func (e *Engine) insertMember(ctx context.Context, org *models.Organization, uid, email string, disabled bool) error {
	limit := plans.Limit(org.Plan)
	orgID := org.ID
	return e.dir.InTransaction(ctx, func(txCtx context.Context) error {
		n, err := e.dir.MemberCount(txCtx, orgID)
		if err != nil {
			return err
		}
		if !limit.Allows(n) {
			return ErrSeatLimitReached
		}
		return e.dir.CreateUser(txCtx, models.User{
			ID:             uid,
			Email:          email,
			OrganizationID: &orgID,
			Role:           models.RoleMember,
			Disabled:       disabled,
		})
	})
}

// rollbackIdentity compensates a created identity after a later step
// failed. A rollback failure leaves an orphaned identity; it is logged for
// operator cleanup.
func (e *Engine) rollbackIdentity(ctx context.Context, uid string) {
	if err := e.ids.Delete(ctx, uid); err != nil {
		e.log.Error("identity rollback failed, orphaned identity remains",
			zap.String("uid", uid), zap.Error(err))
	}
}

// rollbackMember removes both the membership record and the identity.
func (e *Engine) rollbackMember(ctx context.Context, uid string) {
	if err := e.dir.DeleteUser(ctx, uid); err != nil && !errors.Is(err, ErrUserNotFound) {
		e.log.Error("membership record rollback failed",
			zap.String("uid", uid), zap.Error(err))
	}
	e.rollbackIdentity(ctx, uid)
}

func (e *Engine) setupLink(token string) string {
	return strings.TrimRight(e.cfg.BaseURL, "/") + "/setup?token=" + url.QueryEscape(token)
}

func expiryText(d time.Duration) string {
	if h := int(d.Hours()); h >= 1 {
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}
