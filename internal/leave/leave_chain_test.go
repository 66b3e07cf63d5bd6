package leave_test

import (
	"testing"
	"time"

	"go-elms/internal/domain"
	"go-elms/internal/events"
	"go-elms/internal/leave"
	leaveerrors "go-elms/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	chainNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	hodRole  = domain.RoleHeadOfDepartment
	dirRole  = domain.RoleDirector
)

type chainFixture struct {
	chain     *leave.Chain
	requester uuid.UUID
	hod       uuid.UUID
	director  uuid.UUID
	admin     uuid.UUID
}

func newChainFixture(t *testing.T, adminOverride bool) chainFixture {
	t.Helper()
	c, err := leave.NewChain([]domain.Role{hodRole, dirRole}, adminOverride)
	require.NoError(t, err)
	return chainFixture{
		chain:     c,
		requester: uuid.New(),
		hod:       uuid.New(),
		director:  uuid.New(),
		admin:     uuid.New(),
	}
}

func (f chainFixture) seed(t *testing.T) leave.Transition {
	t.Helper()
	req := leave.LeaveRequest{ID: uuid.New(), Reference: "LV-2026-000001", UserID: f.requester, Days: 5}
	tr, err := f.chain.Seed(req, []leave.Approver{
		{Role: hodRole, UserID: f.hod},
		{Role: dirRole, UserID: f.director},
	}, chainNow)
	require.NoError(t, err)
	return tr
}

func actorOf(id uuid.UUID, role domain.Role) domain.Actor {
	return domain.Actor{ID: id, Role: role}
}

func countStatus(steps []leave.ApprovalStep, status leave.StepStatus) int {
	n := 0
	for _, s := range steps {
		if s.Status == status {
			n++
		}
	}
	return n
}

func eventTypes(evs []events.LeaveEvent) []string {
	out := make([]string, len(evs))
	for i, e := range evs {
		out[i] = e.EventType
	}
	return out
}

func TestNewChain(t *testing.T) {
	tests := []struct {
		name    string
		roles   []domain.Role
		wantErr bool
	}{
		{name: "hod then director", roles: []domain.Role{hodRole, dirRole}},
		{name: "admin only", roles: []domain.Role{domain.RoleAdmin}},
		{name: "empty", roles: nil, wantErr: true},
		{name: "staff", roles: []domain.Role{domain.RoleStaff}, wantErr: true},
		{name: "duplicate", roles: []domain.Role{hodRole, hodRole}, wantErr: true},
		{name: "unknown", roles: []domain.Role{"dean"}, wantErr: true},
		{name: "staff in another case", roles: []domain.Role{"Staff"}, wantErr: true},
		{name: "alias duplicates canonical", roles: []domain.Role{"hod", hodRole}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := leave.NewChain(tt.roles, false)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.roles), c.Len())
		})
	}
}

func TestNewChain_StoresCanonicalRoles(t *testing.T) {
	c, err := leave.NewChain([]domain.Role{" HOD ", "Director"}, false)
	require.NoError(t, err)
	assert.Equal(t, []domain.Role{domain.RoleHeadOfDepartment, domain.RoleDirector}, c.Roles())
}

func TestChain_Seed(t *testing.T) {
	f := newChainFixture(t, false)
	tr := f.seed(t)

	assert.Equal(t, leave.StatusPending, tr.Request.Status)
	assert.Equal(t, 0, tr.Request.CurrentStep)
	assert.Equal(t, 1, tr.Request.Version)
	require.Len(t, tr.Steps, 2)
	assert.Equal(t, leave.StepPending, tr.Steps[0].Status)
	assert.Equal(t, leave.StepWaiting, tr.Steps[1].Status)
	assert.NotNil(t, tr.Steps[0].ActivatedAt)
	assert.Nil(t, tr.Steps[1].ActivatedAt)
	assert.False(t, tr.Debit)
	assert.Equal(t, []string{events.LeaveRequestSubmitted}, eventTypes(tr.Events))
	assert.Equal(t, f.hod, *tr.Events[0].NextApproverID)
	assert.ElementsMatch(t, []int{0, 1}, tr.Changed)
}

func TestChain_Seed_ApproverMismatch(t *testing.T) {
	f := newChainFixture(t, false)
	_, err := f.chain.Seed(leave.LeaveRequest{ID: uuid.New()}, []leave.Approver{{Role: hodRole, UserID: f.hod}}, chainNow)
	assert.Error(t, err)

	_, err = f.chain.Seed(leave.LeaveRequest{ID: uuid.New()}, []leave.Approver{
		{Role: dirRole, UserID: f.director},
		{Role: hodRole, UserID: f.hod},
	}, chainNow)
	assert.Error(t, err)
}

func TestChain_Seed_SelfHeldStepIsSkippedAhead(t *testing.T) {
	f := newChainFixture(t, false)
	req := leave.LeaveRequest{ID: uuid.New(), UserID: f.hod, Days: 2}

	tr, err := f.chain.Seed(req, []leave.Approver{
		{Role: hodRole, UserID: f.hod},
		{Role: dirRole, UserID: f.director},
	}, chainNow)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusPending, tr.Request.Status)
	assert.Equal(t, 1, tr.Request.CurrentStep)
	assert.Equal(t, leave.StepApproved, tr.Steps[0].Status)
	assert.Equal(t, f.hod, *tr.Steps[0].DecidedBy)
	assert.Equal(t, leave.StepPending, tr.Steps[1].Status)
	assert.Equal(t, []string{events.LeaveRequestSubmitted, events.LeaveStepApproved}, eventTypes(tr.Events))
	assert.Equal(t, f.director, *tr.Events[0].NextApproverID)
}

func TestChain_Seed_AllSelfHeldFinalizes(t *testing.T) {
	c, err := leave.NewChain([]domain.Role{domain.RoleDirector}, false)
	require.NoError(t, err)
	director := uuid.New()

	tr, err := c.Seed(leave.LeaveRequest{ID: uuid.New(), UserID: director, Days: 1}, []leave.Approver{{Role: dirRole, UserID: director}}, chainNow)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, tr.Request.Status)
	assert.NotNil(t, tr.Request.FinalizedAt)
	assert.True(t, tr.Debit)
	assert.False(t, tr.Overdraft)
	assert.Equal(t, []string{
		events.LeaveRequestSubmitted,
		events.LeaveStepApproved,
		events.LeaveRequestFinalized,
	}, eventTypes(tr.Events))
	assert.Nil(t, tr.Events[0].NextApproverID)
}

func TestChain_Decide_ApproveThroughChain(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)

	first, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionApprove, "ok", chainNow)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, first.Request.Status)
	assert.Equal(t, 1, first.Request.CurrentStep)
	assert.Equal(t, 2, first.Request.Version)
	assert.Equal(t, leave.StepApproved, first.Steps[0].Status)
	assert.Equal(t, leave.StepPending, first.Steps[1].Status)
	assert.Equal(t, 1, countStatus(first.Steps, leave.StepPending))
	assert.False(t, first.Debit)
	assert.Equal(t, []string{events.LeaveStepApproved}, eventTypes(first.Events))
	assert.Equal(t, f.director, *first.Events[0].NextApproverID)

	// inputs are left untouched
	assert.Equal(t, leave.StepPending, seeded.Steps[0].Status)

	final, err := f.chain.Decide(first.Request, first.Steps, first.Steps[1].ID, actorOf(f.director, dirRole), leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, final.Request.Status)
	assert.Equal(t, 3, final.Request.Version)
	assert.True(t, final.Debit)
	assert.False(t, final.Overdraft)
	assert.Len(t, final.Steps, f.chain.Len())
	assert.Equal(t, 2, countStatus(final.Steps, leave.StepApproved))
	assert.Equal(t, 0, countStatus(final.Steps, leave.StepPending))
	assert.Equal(t, []string{events.LeaveStepApproved, events.LeaveRequestFinalized}, eventTypes(final.Events))

	_, err = f.chain.Decide(final.Request, final.Steps, final.Steps[1].ID, actorOf(f.director, dirRole), leave.DecisionApprove, "", chainNow)
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyFinalized)
}

func TestChain_Decide_Reject(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)

	tr, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionReject, "busy season", chainNow)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusRejected, tr.Request.Status)
	assert.False(t, tr.Debit)
	assert.Equal(t, leave.StepRejected, tr.Steps[0].Status)
	assert.Equal(t, "busy season", tr.Steps[0].Comment)
	assert.Equal(t, leave.StepSkipped, tr.Steps[1].Status)
	assert.ElementsMatch(t, []int{0, 1}, tr.Changed)
	assert.Equal(t, []string{events.LeaveStepRejected, events.LeaveRequestFinalized}, eventTypes(tr.Events))
}

func TestChain_Decide_RejectKeepsEarlierApproval(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)

	first, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)
	tr, err := f.chain.Decide(first.Request, first.Steps, first.Steps[1].ID, actorOf(f.director, dirRole), leave.DecisionReject, "", chainNow)
	require.NoError(t, err)

	assert.Equal(t, leave.StepApproved, tr.Steps[0].Status)
	assert.Equal(t, leave.StepRejected, tr.Steps[1].Status)
	assert.Equal(t, []int{1}, tr.Changed)
}

func TestChain_Decide_Errors(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)

	tests := []struct {
		name   string
		stepID uuid.UUID
		actor  domain.Actor
		want   error
	}{
		{name: "unknown step", stepID: uuid.New(), actor: actorOf(f.hod, hodRole), want: leaveerrors.ErrStepNotFound},
		{name: "waiting step", stepID: seeded.Steps[1].ID, actor: actorOf(f.director, dirRole), want: leaveerrors.ErrStepNotActive},
		{name: "wrong approver", stepID: seeded.Steps[0].ID, actor: actorOf(f.director, dirRole), want: leaveerrors.ErrNotAuthorized},
		{name: "requester", stepID: seeded.Steps[0].ID, actor: actorOf(f.requester, domain.RoleStaff), want: leaveerrors.ErrNotAuthorized},
		{name: "admin without override", stepID: seeded.Steps[0].ID, actor: actorOf(f.admin, domain.RoleAdmin), want: leaveerrors.ErrNotAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.chain.Decide(seeded.Request, seeded.Steps, tt.stepID, tt.actor, leave.DecisionApprove, "", chainNow)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChain_Decide_SecondDecisionOnSameStep(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)

	first, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)

	_, err = f.chain.Decide(first.Request, first.Steps, first.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionApprove, "", chainNow)
	assert.ErrorIs(t, err, leaveerrors.ErrStepNotActive)
	assert.True(t, leaveerrors.IsState(err))
}

func TestChain_Decide_AdminOverride(t *testing.T) {
	f := newChainFixture(t, true)
	seeded := f.seed(t)
	admin := actorOf(f.admin, domain.RoleAdmin)

	first, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, admin, leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)
	assert.Equal(t, f.admin, *first.Steps[0].DecidedBy)

	final, err := f.chain.Decide(first.Request, first.Steps, first.Steps[1].ID, admin, leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)
	assert.True(t, final.Debit)
	assert.True(t, final.Overdraft)
}

func TestChain_Decide_SystemActor(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)

	tr, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, domain.SystemActor(), leave.DecisionApprove, "auto", chainNow)
	require.NoError(t, err)
	assert.Equal(t, leave.StepApproved, tr.Steps[0].Status)
	assert.Equal(t, uuid.Nil, *tr.Steps[0].DecidedBy)
}

func TestChain_Decide_ActivatesSelfHeldNextStep(t *testing.T) {
	f := newChainFixture(t, false)
	// the director files leave; the HOD approves and the director's own step
	// is approved straight away.
	req := leave.LeaveRequest{ID: uuid.New(), UserID: f.director, Days: 3}
	seeded, err := f.chain.Seed(req, []leave.Approver{
		{Role: hodRole, UserID: f.hod},
		{Role: dirRole, UserID: f.director},
	}, chainNow)
	require.NoError(t, err)

	tr, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, tr.Request.Status)
	assert.True(t, tr.Debit)
	assert.Equal(t, []string{events.LeaveStepApproved, events.LeaveStepApproved, events.LeaveRequestFinalized}, eventTypes(tr.Events))
}

func TestChain_Cancel(t *testing.T) {
	f := newChainFixture(t, false)
	seeded := f.seed(t)
	first, err := f.chain.Decide(seeded.Request, seeded.Steps, seeded.Steps[0].ID, actorOf(f.hod, hodRole), leave.DecisionApprove, "", chainNow)
	require.NoError(t, err)

	_, err = f.chain.Cancel(first.Request, first.Steps, actorOf(f.hod, hodRole), chainNow)
	assert.ErrorIs(t, err, leaveerrors.ErrNotAuthorized)

	tr, err := f.chain.Cancel(first.Request, first.Steps, actorOf(f.requester, domain.RoleStaff), chainNow)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, tr.Request.Status)
	assert.Equal(t, leave.StepApproved, tr.Steps[0].Status)
	assert.Equal(t, leave.StepSkipped, tr.Steps[1].Status)
	assert.False(t, tr.Debit)
	assert.Equal(t, []string{events.LeaveRequestCancelled}, eventTypes(tr.Events))

	_, err = f.chain.Decide(tr.Request, tr.Steps, tr.Steps[1].ID, actorOf(f.director, dirRole), leave.DecisionApprove, "", chainNow)
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyFinalized)

	_, err = f.chain.Cancel(tr.Request, tr.Steps, actorOf(f.requester, domain.RoleStaff), chainNow)
	assert.ErrorIs(t, err, leaveerrors.ErrAlreadyFinalized)
}

func TestParseDecision(t *testing.T) {
	d, err := leave.ParseDecision("reject")
	assert.NoError(t, err)
	assert.Equal(t, leave.DecisionReject, d)

	_, err = leave.ParseDecision("maybe")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDecision)
}
