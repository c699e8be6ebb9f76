package commands

import (
	"errors"

	"github.com/arvni/provider-panel-sub000/internal/core/domain/model/order"
	"github.com/arvni/provider-panel-sub000/internal/pkg/errs"
	"github.com/arvni/provider-panel-sub000/internal/pkg/guard"
)

var ErrAdvanceOrderStepCommandIsNotConstructed = errors.New(
	"AdvanceOrderStepCommand must be created via NewAdvanceOrderStepCommand constructor",
)

// AdvanceOrderStepCommand requests one step-advance mutation on an order:
// apply the step-specific payload, then move the step pointer forward.
//
// Example:
//
//	payload := commands.StepPayload{TestMethod: &commands.TestMethodPayload{TestIDs: []uint{3, 7}}}
//	cmd, err := commands.NewAdvanceOrderStepCommand(orderID, order.StepTestMethod, actorID, payload)
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type AdvanceOrderStepCommand struct {
	orderID uint
	step    order.Step
	actorID uint
	payload StepPayload

	guard guard.ConstructorGuard
}

// NewAdvanceOrderStepCommand validates and creates a step-advance command.
// The payload variant must match the step; the actor is the account on whose
// behalf new patients are created.
func NewAdvanceOrderStepCommand(
	orderID uint,
	step order.Step,
	actorID uint,
	payload StepPayload,
) (AdvanceOrderStepCommand, error) {
	if orderID == 0 {
		return AdvanceOrderStepCommand{}, errs.NewValueIsRequiredError("orderID")
	}
	if actorID == 0 {
		return AdvanceOrderStepCommand{}, errs.NewValueIsRequiredError("actorID")
	}
	if err := step.Validate(); err != nil {
		return AdvanceOrderStepCommand{}, err
	}
	if err := payload.validateForStep(step); err != nil {
		return AdvanceOrderStepCommand{}, err
	}

	return AdvanceOrderStepCommand{
		orderID: orderID,
		step:    step,
		actorID: actorID,
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderStepCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderStepCommandIsNotConstructed)
}

// OrderID returns the target order's id.
func (c AdvanceOrderStepCommand) OrderID() uint {
	return c.orderID
}

// Step returns the workflow step being advanced.
func (c AdvanceOrderStepCommand) Step() order.Step {
	return c.step
}

// ActorID returns the requesting account's id.
func (c AdvanceOrderStepCommand) ActorID() uint {
	return c.actorID
}

// Payload returns the step payload union.
func (c AdvanceOrderStepCommand) Payload() StepPayload {
	return c.payload
}
