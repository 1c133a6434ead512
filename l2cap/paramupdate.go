package l2cap

import (
	"github.com/rigado/blecore/ble"
	"github.com/rigado/blecore/hci"
)

// RoleMaster and RoleSlave mirror the link-layer role values carried by the
// LE Connection Complete event; only a slave (peripheral) ever emits a
// Connection Parameter Update Request.
const (
	RoleMaster = 0x00
	RoleSlave  = 0x01
)

// requestIdentifier is the fixed identifier this core uses for the one
// connection parameter update request it may have in flight per connection.
const requestIdentifier = 0x01

// Config bounds the connection parameters this core will accept or propose.
type Config struct {
	MinInterval        uint16 // 1.25ms units
	MaxInterval        uint16 // 1.25ms units
	SupervisionTimeout uint16 // 10ms units

	// HasBounds is false when no configuration has been supplied, in which
	// case every incoming request is accepted.
	HasBounds bool
}

// Engine implements the Parameter Update Engine: peripheral-side request
// emission on new connections, and responder-side accept/reject policy for
// incoming requests.
type Engine struct {
	cfg Config
	log ble.Logger
}

// NewEngine constructs a Parameter Update Engine bound to cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, log: ble.GetLogger().ChildLogger(map[string]interface{}{"component": "l2cap.paramupdate"})}
}

// OnConnectionUp evaluates a newly completed connection's controller-
// granted interval against the configured bounds. If role is RoleSlave and
// the interval is out of range, it returns the request to send; ok is
// false when master-role or when the interval is already acceptable.
func (e *Engine) OnConnectionUp(role uint8, grantedInterval uint16) (req *ConnParamUpdateRequest, identifier uint8, ok bool) {
	if role != RoleSlave {
		return nil, 0, false
	}
	if !e.cfg.HasBounds {
		return nil, 0, false
	}
	if grantedInterval >= e.cfg.MinInterval && grantedInterval <= e.cfg.MaxInterval {
		return nil, 0, false
	}

	e.log.Infof("connection interval %d out of configured range [%d,%d], requesting update", grantedInterval, e.cfg.MinInterval, e.cfg.MaxInterval)

	return &ConnParamUpdateRequest{
		IntervalMin:       e.cfg.MinInterval,
		IntervalMax:       e.cfg.MaxInterval,
		SlaveLatency:      0,
		TimeoutMultiplier: e.cfg.SupervisionTimeout,
	}, requestIdentifier, true
}

// OnUpdateRequest applies the accept/reject policy to an inbound
// ConnParamUpdateRequest. On accept, it also returns the HCI LE Connection
// Update command to forward to the controller.
func (e *Engine) OnUpdateRequest(handle ble.ConnHandle, identifier uint8, req *ConnParamUpdateRequest) (resp *ConnParamUpdateResponse, cmd *hci.LEConnectionUpdate) {
	if e.rejects(req) {
		e.log.Warnf("rejecting conn param update request from %s: min=%d max=%d timeout=%d", handle, req.IntervalMin, req.IntervalMax, req.TimeoutMultiplier)
		return &ConnParamUpdateResponse{Result: ResultRejected}, nil
	}

	e.log.Infof("accepting conn param update request from %s: min=%d max=%d timeout=%d", handle, req.IntervalMin, req.IntervalMax, req.TimeoutMultiplier)

	cmd = &hci.LEConnectionUpdate{
		ConnectionHandle:   uint16(handle),
		IntervalMin:        req.IntervalMin,
		IntervalMax:        req.IntervalMax,
		Latency:            req.SlaveLatency,
		SupervisionTimeout: req.TimeoutMultiplier,
	}
	return &ConnParamUpdateResponse{Result: ResultAccepted}, cmd
}

func (e *Engine) rejects(req *ConnParamUpdateRequest) bool {
	if !e.cfg.HasBounds {
		return false
	}
	if req.IntervalMin < e.cfg.MinInterval || req.IntervalMax > e.cfg.MaxInterval {
		return true
	}
	if req.TimeoutMultiplier != e.cfg.SupervisionTimeout {
		return true
	}
	return false
}

// OnUpdateResponse handles an inbound ConnParamUpdateResponse. This core
// takes no further action — the outcome is observed via controller events
// handled outside this core — but it logs the result for diagnostics.
func (e *Engine) OnUpdateResponse(handle ble.ConnHandle, resp *ConnParamUpdateResponse) {
	if resp.Result == ResultAccepted {
		e.log.Debugf("peer %s accepted our conn param update", handle)
		return
	}
	e.log.Debugf("peer %s rejected our conn param update", handle)
}
