package services

import (
	"errors"
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"gorm.io/gorm"
)

type ProposalInput struct {
	JobID          uint
	ApplierID      uint
	CoverLetter    string
	ProposedAmount float64
	EstimatedDays  uint
	AttachmentPath string
}

// SubmitProposal accepts one proposal per (job, applier) while the posting is
// published and before its deadline.
func SubmitProposal(input ProposalInput) (models.Proposal, error) {
	var proposal models.Proposal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var job models.JobPosting

		if err := tx.First(&job, input.JobID).Error; err != nil {
			return err
		}

		if !job.IsActive(time.Now()) {
			return ErrJobNotActive
		}

		var existing models.Proposal

		err := tx.Where("job_id = ? AND applier_id = ?", input.JobID, input.ApplierID).First(&existing).Error

		if err == nil {
			return ErrDuplicateProposal
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		proposal = models.Proposal{
			JobID:          input.JobID,
			ApplierID:      input.ApplierID,
			CoverLetter:    input.CoverLetter,
			ProposedAmount: input.ProposedAmount,
			EstimatedDays:  input.EstimatedDays,
			AttachmentPath: input.AttachmentPath,
			Status:         types.ProposalSubmitted,
		}

		return tx.Create(&proposal).Error
	})

	return proposal, err
}

// ReviewProposal moves a submitted proposal under review.
func ReviewProposal(proposalID uint) (models.Proposal, error) {
	var proposal models.Proposal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proposal, proposalID).Error; err != nil {
			return err
		}

		if proposal.Status != types.ProposalSubmitted {
			return ErrProposalClosed
		}

		proposal.Status = types.ProposalUnderReview

		return tx.Save(&proposal).Error
	})

	return proposal, err
}

// AcceptProposal accepts an open proposal and spawns a draft contract from its
// terms. The contract references the job and proposal with nullable links, so
// it survives their later deletion.
func AcceptProposal(proposalID uint) (models.Contract, error) {
	var contract models.Contract

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal

		if err := tx.Preload("Job").First(&proposal, proposalID).Error; err != nil {
			return err
		}

		if proposal.Status != types.ProposalSubmitted && proposal.Status != types.ProposalUnderReview {
			return ErrProposalClosed
		}

		proposal.Status = types.ProposalAccepted

		if err := tx.Save(&proposal).Error; err != nil {
			return err
		}

		start := time.Now()
		end := start.AddDate(0, 0, int(proposal.EstimatedDays))

		contract = models.Contract{
			JobID:           &proposal.JobID,
			ProposalID:      &proposal.ID,
			Title:           proposal.Job.Title,
			Description:     proposal.Job.Description,
			StartDate:       start,
			EndDate:         &end,
			TotalAmount:     proposal.ProposedAmount,
			PaymentSchedule: types.BudgetMilestone,
			Status:          types.ContractDraft,
		}

		return tx.Create(&contract).Error
	})

	return contract, err
}

// RejectProposal closes an open proposal, optionally recording a client note.
func RejectProposal(proposalID uint, note string) (models.Proposal, error) {
	var proposal models.Proposal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proposal, proposalID).Error; err != nil {
			return err
		}

		if proposal.Status != types.ProposalSubmitted && proposal.Status != types.ProposalUnderReview {
			return ErrProposalClosed
		}

		proposal.Status = types.ProposalRejected

		if note != "" {
			proposal.ClientNotes = note
		}

		return tx.Save(&proposal).Error
	})

	return proposal, err
}

// WithdrawProposal lets the applier pull an open proposal.
func WithdrawProposal(proposalID uint) (models.Proposal, error) {
	var proposal models.Proposal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&proposal, proposalID).Error; err != nil {
			return err
		}

		if proposal.Status != types.ProposalSubmitted && proposal.Status != types.ProposalUnderReview {
			return ErrProposalClosed
		}

		proposal.Status = types.ProposalWithdrawn

		return tx.Save(&proposal).Error
	})

	return proposal, err
}

// ActivateContract moves a draft contract to active.
func ActivateContract(contractID uint) (models.Contract, error) {
	return transitionContract(contractID, types.ContractDraft, types.ContractActive)
}

// DisputeContract flags an active contract as disputed.
func DisputeContract(contractID uint) (models.Contract, error) {
	return transitionContract(contractID, types.ContractActive, types.ContractDisputed)
}

func transitionContract(contractID uint, from string, to string) (models.Contract, error) {
	var contract models.Contract

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, contractID).Error; err != nil {
			return err
		}

		if contract.Status != from {
			return ErrContractClosed
		}

		contract.Status = to

		return tx.Save(&contract).Error
	})

	return contract, err
}

// CompleteContract is a one-way transition: it stamps completion and forces
// progress to 100 without checking the milestone set. Completing an already
// completed contract is a no-op.
func CompleteContract(contractID uint) (models.Contract, error) {
	var contract models.Contract

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, contractID).Error; err != nil {
			return err
		}

		if contract.Status == types.ContractCompleted {
			return nil
		}

		if contract.Status == types.ContractCancelled {
			return ErrContractClosed
		}

		contract.Status = types.ContractCompleted
		contract.Progress = 100
		now := time.Now()
		contract.CompletedAt = &now

		return tx.Save(&contract).Error
	})

	return contract, err
}

// CancelContract closes a draft or active contract.
func CancelContract(contractID uint) (models.Contract, error) {
	var contract models.Contract

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&contract, contractID).Error; err != nil {
			return err
		}

		if contract.Status == types.ContractCompleted || contract.Status == types.ContractCancelled {
			return ErrContractClosed
		}

		contract.Status = types.ContractCancelled

		return tx.Save(&contract).Error
	})

	return contract, err
}

// AddMilestone attaches a payable sub-deliverable and marks the contract as
// milestone-based.
func AddMilestone(contractID uint, title string, description string, amount float64, dueDate *time.Time) (models.Milestone, error) {
	var milestone models.Milestone

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var contract models.Contract

		if err := tx.First(&contract, contractID).Error; err != nil {
			return err
		}

		milestone = models.Milestone{
			ContractID:  contractID,
			Title:       title,
			Description: description,
			Amount:      amount,
			DueDate:     dueDate,
			Status:      types.MilestonePending,
		}

		if err := tx.Create(&milestone).Error; err != nil {
			return err
		}

		if !contract.HasMilestones {
			contract.HasMilestones = true

			if err := tx.Save(&contract).Error; err != nil {
				return err
			}
		}

		return recomputeContractProgress(tx, contractID)
	})

	return milestone, err
}

// milestoneOrder defines the forward-only milestone pipeline.
var milestoneOrder = map[string]int{
	types.MilestonePending:    0,
	types.MilestoneInProgress: 1,
	types.MilestoneCompleted:  2,
	types.MilestoneApproved:   3,
	types.MilestonePaid:       4,
}

// TransitionMilestone advances a milestone one step forward. Transitions never
// move backwards and never skip the completed -> approved -> paid chain.
func TransitionMilestone(milestoneID uint, target string) (models.Milestone, error) {
	var milestone models.Milestone

	targetRank, ok := milestoneOrder[target]

	if !ok {
		return milestone, ErrMilestoneTransition
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&milestone, milestoneID).Error; err != nil {
			return err
		}

		currentRank := milestoneOrder[milestone.Status]

		if targetRank != currentRank+1 {
			return ErrMilestoneTransition
		}

		milestone.Status = target
		now := time.Now()

		switch target {
		case types.MilestoneCompleted:
			milestone.CompletedAt = &now
		case types.MilestonePaid:
			milestone.PaidAt = &now
		}

		if err := tx.Save(&milestone).Error; err != nil {
			return err
		}

		return recomputeContractProgress(tx, milestone.ContractID)
	})

	return milestone, err
}

// recomputeContractProgress derives contract progress from the fraction of
// approved-or-paid milestones. It never touches the contract status: closing a
// contract is always an explicit CompleteContract call, so paying every
// milestone leaves the status untouched.
func recomputeContractProgress(tx *gorm.DB, contractID uint) error {
	var contract models.Contract

	if err := tx.First(&contract, contractID).Error; err != nil {
		return err
	}

	if contract.Status == types.ContractCompleted {
		return nil
	}

	var totalMilestones int64

	if err := tx.Model(&models.Milestone{}).Where("contract_id = ?", contractID).Count(&totalMilestones).Error; err != nil {
		return err
	}

	if totalMilestones == 0 {
		return nil
	}

	var settledMilestones int64

	err := tx.Model(&models.Milestone{}).
		Where("contract_id = ? AND status IN ?", contractID, []string{types.MilestoneApproved, types.MilestonePaid}).
		Count(&settledMilestones).Error

	if err != nil {
		return err
	}

	contract.Progress = float64(settledMilestones) / float64(totalMilestones) * 100

	return tx.Save(&contract).Error
}
