package asic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/config"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/scan"
	"github.com/soundcath/beamformer/internal/serialmux"
)

// Link is the line transport to the bridge. serialmux.SerialMux satisfies it.
type Link interface {
	SendCommand(command string) error
	Query(ctx context.Context, command string) (string, error)
}

// Info identifies the bridge firmware.
type Info struct {
	Description string
	Version     string
}

// Controller issues commands to the ASIC over a Link and checks the error
// state after every payload.
type Controller struct {
	link    Link
	metrics *monitoring.Metrics
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records every command in m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// NewController returns a Controller talking over link.
func NewController(link Link, opts ...Option) *Controller {
	c := &Controller{link: link}
	for _, o := range opts {
		o(c)
	}
	return c
}

func commandName(command string) string {
	name, _, _ := strings.Cut(command, ":")
	return name
}

// linkError tags a transport failure with the driver error for its
// direction: commands that never left the host are send failures, everything
// else happened while waiting for the reply.
func linkError(err error) error {
	if errors.Is(err, serialmux.ErrSendFailed) {
		return ErrUSBSend
	}
	return ErrUSBReceive
}

// cause labels a command failure for metrics.
func cause(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUSBSend):
		return "send"
	case errors.Is(err, ErrUSBReceive):
		return "receive"
	default:
		return "status"
	}
}

// exec sends command and waits for its acknowledgement.
func (c *Controller) exec(ctx context.Context, command string) (string, error) {
	name := commandName(command)
	line, err := c.link.Query(ctx, command)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", name, linkError(err), err)
	}
	c.metrics.RecordASICCommand(name, cause(err))
	if err != nil {
		return "", err
	}
	monitoring.Debugf("asic: %s -> %s", name, line)
	return Result(line), nil
}

// Status reads and decodes the error state of the ASIC and FPGA.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	line, err := c.link.Query(ctx, CmdGetAsicError)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w: %w", CmdGetAsicError, ErrStatus, linkError(err), err)
		c.metrics.RecordASICCommand(CmdGetAsicError, cause(err))
		return Status{}, err
	}
	st, err := ParseStatus(line)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrStatus, err)
	}
	c.metrics.RecordASICCommand(CmdGetAsicError, cause(err))
	return st, err
}

// Check returns the decoded chip errors, or nil when both report clear.
func (c *Controller) Check(ctx context.Context) error {
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	return st.Err()
}

// payload sends command and checks the status afterwards.
func (c *Controller) payload(ctx context.Context, command string) error {
	if _, err := c.exec(ctx, command); err != nil {
		return err
	}
	if err := c.Check(ctx); err != nil {
		return fmt.Errorf("after %s: %w", commandName(command), err)
	}
	return nil
}

// Initialize resets the bridge and verifies that no error is latched.
func (c *Controller) Initialize(ctx context.Context) error {
	return c.payload(ctx, CmdInitialize)
}

// Describe reads the bridge firmware description and version.
func (c *Controller) Describe(ctx context.Context) (Info, error) {
	desc, err := c.exec(ctx, CmdFPGADescription)
	if err != nil {
		return Info{}, err
	}
	version, err := c.exec(ctx, CmdFPGAVersion)
	if err != nil {
		return Info{}, err
	}
	return Info{Description: desc, Version: version}, nil
}

// Configure uploads the configured register set and checks the status once
// all parameters are written.
func (c *Controller) Configure(ctx context.Context, cfg *config.ASICConfig) error {
	params := ParamsFromConfig(cfg)
	for _, p := range params {
		if _, err := c.exec(ctx, p.Command()); err != nil {
			return fmt.Errorf("%w: %s.%s: %w", ErrParamSet, p.Group, p.Name, err)
		}
	}
	if err := c.Check(ctx); err != nil {
		return fmt.Errorf("after configure: %w", err)
	}
	monitoring.Logf("asic: configured %d parameters", len(params))
	return nil
}

// SetMode switches the ASIC operating mode.
func (c *Controller) SetMode(ctx context.Context, m Mode) error {
	switch m {
	case ModeCW, ModeNormal, ModeBMode:
	default:
		return fmt.Errorf("%w: mode %q", ErrParam, m)
	}
	return c.payload(ctx, SetMode(m))
}

// LoadCell uploads the payloads of one grid cell: the delay pair in delay
// mode, otherwise the transmit and receive coefficients, the receive delays
// of the cache's representative group and the dynamic curve when present.
func (c *Controller) LoadCell(ctx context.Context, cache *scan.Cache, i, j int) error {
	cell, ok := cache.Cell(i, j)
	if !ok {
		return fmt.Errorf("%w: cell (%d, %d) outside %dx%d grid", ErrParam, i, j, cache.Params().XSteps, cache.Params().YSteps)
	}

	var commands []string
	if cache.Mode() == scan.ModeDelays {
		commands = []string{SetTxDelays(cell.TxDelays), SetRxDelays(cell.RxDelays)}
	} else {
		commands = []string{
			SetTxCoeffs(cell.TxCoeffs),
			SetRxCoeffs(cell.RxCoeffs),
			SetRxGroupDelays(cache.Group(), cell.RxGroupDelays),
		}
		if !cell.Dynamic.IsZero() {
			commands = append(commands, SetDynRx(cell.Dynamic))
		}
	}
	for _, cmd := range commands {
		if err := c.payload(ctx, cmd); err != nil {
			return err
		}
	}
	x, y := cache.Angles(i, j)
	monitoring.Debugf("asic: loaded cell (%d, %d) at %.2f°, %.2f°", i, j, x, y)
	return nil
}

// Fire fires the full aperture with explicit delays.
func (c *Controller) Fire(ctx context.Context, d beamform.DelayField) error {
	return c.payload(ctx, Fire(d))
}

// FireSingle fires one element.
func (c *Controller) FireSingle(ctx context.Context, element int) error {
	if element < 0 || element >= beamform.NumElements {
		return fmt.Errorf("%w: element %d", ErrParam, element)
	}
	return c.payload(ctx, FireSingle(element))
}

// FireGroup fires one group with group-local delays.
func (c *Controller) FireGroup(ctx context.Context, group int, d beamform.GroupDelayField) error {
	if group < 0 || group >= beamform.NumGroups {
		return fmt.Errorf("%w: group %d", ErrParam, group)
	}
	return c.payload(ctx, FireGroup(group, d))
}

// IsRetryable reports whether err only signals a transiently busy ASIC.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy) && !errors.Is(err, ErrLocked)
}
