package services

import (
	"testing"
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProposal(t *testing.T) {
	setupTestDB(t)

	client := createTestUser(t, types.RoleClient)
	talent := createTestUser(t, types.RoleTalent)
	job := createTestJob(t, client.ID, nil)

	proposal, err := SubmitProposal(ProposalInput{
		JobID:          job.ID,
		ApplierID:      talent.ID,
		CoverLetter:    "I have shipped three billing systems.",
		ProposedAmount: 5000,
		EstimatedDays:  30,
	})
	require.NoError(t, err)
	assert.Equal(t, types.ProposalSubmitted, proposal.Status)

	_, err = SubmitProposal(ProposalInput{
		JobID:          job.ID,
		ApplierID:      talent.ID,
		CoverLetter:    "Second attempt",
		ProposedAmount: 4000,
		EstimatedDays:  20,
	})
	assert.ErrorIs(t, err, ErrDuplicateProposal)
}

func TestSubmitProposalInactiveJob(t *testing.T) {
	setupTestDB(t)

	client := createTestUser(t, types.RoleClient)
	talent := createTestUser(t, types.RoleTalent)

	past := time.Now().Add(-time.Hour)
	expired := createTestJob(t, client.ID, &past)

	_, err := SubmitProposal(ProposalInput{
		JobID:          expired.ID,
		ApplierID:      talent.ID,
		CoverLetter:    "Too late",
		ProposedAmount: 1000,
		EstimatedDays:  10,
	})
	assert.ErrorIs(t, err, ErrJobNotActive)

	draft := models.JobPosting{
		ClientID:    client.ID,
		Title:       "Unpublished",
		Description: "Not yet visible",
		Status:      types.JobDraft,
	}
	require.NoError(t, db.DB.Create(&draft).Error)

	_, err = SubmitProposal(ProposalInput{
		JobID:          draft.ID,
		ApplierID:      talent.ID,
		CoverLetter:    "Too early",
		ProposedAmount: 1000,
		EstimatedDays:  10,
	})
	assert.ErrorIs(t, err, ErrJobNotActive)
}

func TestAcceptProposalSpawnsContract(t *testing.T) {
	setupTestDB(t)

	client := createTestUser(t, types.RoleClient)
	talent := createTestUser(t, types.RoleTalent)
	job := createTestJob(t, client.ID, nil)

	proposal, err := SubmitProposal(ProposalInput{
		JobID:          job.ID,
		ApplierID:      talent.ID,
		CoverLetter:    "Pick me",
		ProposedAmount: 7500,
		EstimatedDays:  45,
	})
	require.NoError(t, err)

	contract, err := AcceptProposal(proposal.ID)
	require.NoError(t, err)

	assert.Equal(t, types.ContractDraft, contract.Status)
	assert.Equal(t, job.Title, contract.Title)
	assert.Equal(t, float64(7500), contract.TotalAmount)
	require.NotNil(t, contract.JobID)
	assert.Equal(t, job.ID, *contract.JobID)
	require.NotNil(t, contract.ProposalID)
	assert.Equal(t, proposal.ID, *contract.ProposalID)
	require.NotNil(t, contract.EndDate)
	assert.InDelta(t, 45*24.0, contract.EndDate.Sub(contract.StartDate).Hours(), 1)

	var refreshed models.Proposal
	require.NoError(t, db.DB.First(&refreshed, proposal.ID).Error)
	assert.Equal(t, types.ProposalAccepted, refreshed.Status)

	// An accepted proposal cannot be accepted again
	_, err = AcceptProposal(proposal.ID)
	assert.ErrorIs(t, err, ErrProposalClosed)
}

func TestProposalRejectAndWithdraw(t *testing.T) {
	setupTestDB(t)

	client := createTestUser(t, types.RoleClient)
	talent := createTestUser(t, types.RoleTalent)
	other := createTestUser(t, types.RoleTalent)
	job := createTestJob(t, client.ID, nil)

	first, err := SubmitProposal(ProposalInput{
		JobID: job.ID, ApplierID: talent.ID,
		CoverLetter: "A", ProposedAmount: 100, EstimatedDays: 5,
	})
	require.NoError(t, err)

	second, err := SubmitProposal(ProposalInput{
		JobID: job.ID, ApplierID: other.ID,
		CoverLetter: "B", ProposedAmount: 200, EstimatedDays: 7,
	})
	require.NoError(t, err)

	reviewed, err := ReviewProposal(first.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProposalUnderReview, reviewed.Status)

	rejected, err := RejectProposal(first.ID, "Budget too high")
	require.NoError(t, err)
	assert.Equal(t, types.ProposalRejected, rejected.Status)
	assert.Equal(t, "Budget too high", rejected.ClientNotes)

	_, err = WithdrawProposal(first.ID)
	assert.ErrorIs(t, err, ErrProposalClosed)

	withdrawn, err := WithdrawProposal(second.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ProposalWithdrawn, withdrawn.Status)
}

func createTestContract(t *testing.T, status string) models.Contract {
	t.Helper()

	contract := models.Contract{
		Title:       "Billing service build",
		StartDate:   time.Now(),
		TotalAmount: 9000,
		Status:      status,
	}
	require.NoError(t, db.DB.Create(&contract).Error)

	return contract
}

func TestContractLifecycle(t *testing.T) {
	setupTestDB(t)

	contract := createTestContract(t, types.ContractDraft)

	active, err := ActivateContract(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ContractActive, active.Status)

	// Activating twice is a state conflict
	_, err = ActivateContract(contract.ID)
	assert.ErrorIs(t, err, ErrContractClosed)

	disputed, err := DisputeContract(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ContractDisputed, disputed.Status)

	completed, err := CompleteContract(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ContractCompleted, completed.Status)
	assert.InDelta(t, 100.0, completed.Progress, 0.01)
	assert.NotNil(t, completed.CompletedAt)

	// Completing again is a no-op
	_, err = CompleteContract(contract.ID)
	require.NoError(t, err)

	_, err = CancelContract(contract.ID)
	assert.ErrorIs(t, err, ErrContractClosed)
}

func TestCancelledContractStaysClosed(t *testing.T) {
	setupTestDB(t)

	contract := createTestContract(t, types.ContractActive)

	cancelled, err := CancelContract(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, types.ContractCancelled, cancelled.Status)

	_, err = CompleteContract(contract.ID)
	assert.ErrorIs(t, err, ErrContractClosed)
}

func TestMilestonePipeline(t *testing.T) {
	setupTestDB(t)

	contract := createTestContract(t, types.ContractActive)

	first, err := AddMilestone(contract.ID, "Design", "", 3000, nil)
	require.NoError(t, err)
	assert.Equal(t, types.MilestonePending, first.Status)

	second, err := AddMilestone(contract.ID, "Implementation", "", 6000, nil)
	require.NoError(t, err)

	var refreshed models.Contract
	require.NoError(t, db.DB.First(&refreshed, contract.ID).Error)
	assert.True(t, refreshed.HasMilestones)
	assert.Zero(t, refreshed.Progress)

	// Skipping steps is rejected
	_, err = TransitionMilestone(first.ID, types.MilestonePaid)
	assert.ErrorIs(t, err, ErrMilestoneTransition)

	_, err = TransitionMilestone(first.ID, types.MilestoneInProgress)
	require.NoError(t, err)

	// Moving backwards is rejected
	_, err = TransitionMilestone(first.ID, types.MilestonePending)
	assert.ErrorIs(t, err, ErrMilestoneTransition)

	milestone, err := TransitionMilestone(first.ID, types.MilestoneCompleted)
	require.NoError(t, err)
	assert.NotNil(t, milestone.CompletedAt)

	require.NoError(t, db.DB.First(&refreshed, contract.ID).Error)
	assert.Zero(t, refreshed.Progress, "completed milestones are not settled yet")

	_, err = TransitionMilestone(first.ID, types.MilestoneApproved)
	require.NoError(t, err)

	require.NoError(t, db.DB.First(&refreshed, contract.ID).Error)
	assert.InDelta(t, 50.0, refreshed.Progress, 0.01)

	milestone, err = TransitionMilestone(first.ID, types.MilestonePaid)
	require.NoError(t, err)
	assert.NotNil(t, milestone.PaidAt)

	// Paying every milestone never closes the contract by itself
	for _, target := range []string{types.MilestoneInProgress, types.MilestoneCompleted, types.MilestoneApproved, types.MilestonePaid} {
		_, err = TransitionMilestone(second.ID, target)
		require.NoError(t, err)
	}

	require.NoError(t, db.DB.First(&refreshed, contract.ID).Error)
	assert.InDelta(t, 100.0, refreshed.Progress, 0.01)
	assert.Equal(t, types.ContractActive, refreshed.Status)
	assert.Nil(t, refreshed.CompletedAt)
}

func TestCompletedContractProgressFrozen(t *testing.T) {
	setupTestDB(t)

	contract := createTestContract(t, types.ContractActive)

	milestone, err := AddMilestone(contract.ID, "Everything", "", 9000, nil)
	require.NoError(t, err)

	_, err = CompleteContract(contract.ID)
	require.NoError(t, err)

	// Milestone churn after completion leaves the contract untouched
	_, err = TransitionMilestone(milestone.ID, types.MilestoneInProgress)
	require.NoError(t, err)

	var refreshed models.Contract
	require.NoError(t, db.DB.First(&refreshed, contract.ID).Error)
	assert.InDelta(t, 100.0, refreshed.Progress, 0.01)
	assert.Equal(t, types.ContractCompleted, refreshed.Status)
}
