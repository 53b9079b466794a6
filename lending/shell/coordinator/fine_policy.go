package coordinator

import (
	"context"
	"time"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

// FinePolicyInfo describes the active fine policy.
type FinePolicyInfo struct {
	Name        string
	Description string
}

// FinePolicy returns the active fine policy.
func (c *Coordinator) FinePolicy() FinePolicyInfo {
	active := c.fines.Active()

	return FinePolicyInfo{
		Name:        active.Name(),
		Description: active.Describe(),
	}
}

// SwitchFinePolicy makes the named fine policy active. Fines of already returned loans keep their amount.
func (c *Coordinator) SwitchFinePolicy(ctx context.Context, name string) (info FinePolicyInfo, err error) {
	start := time.Now()
	defer func() {
		c.observe(ctx, operationSwitchFinePolicy, start, err, shell.LogAttrFinePolicy, name)
	}()

	previous := c.fines.Active().Name()

	if err = c.fines.UseNamed(name); err != nil {
		return FinePolicyInfo{}, err
	}

	shell.LogInfo(ctx, c.logger, c.contextualLogger, shell.LogMsgFinePolicySwitched,
		"previous_policy", previous,
		shell.LogAttrFinePolicy, name,
	)

	return c.FinePolicy(), nil
}
