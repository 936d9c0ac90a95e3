// internal/writer/builder.go
package writer

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/modbus-mapper/internal/config"
	tmodbus "github.com/tamzrod/modbus-mapper/internal/transport/modbus"
	"github.com/tamzrod/modbus-mapper/internal/writer/ingest"
)

// BuildPlan converts a validated, normalized config into a write Plan.
func BuildPlan(c *cfg.Config) Plan {
	plan := Plan{
		Endpoint: c.Device.Endpoint,
		UnitID:   c.Device.UnitID,
	}

	if st := c.Status; st != nil {
		sp := &StatusPlan{
			Endpoint:   st.Endpoint,
			UnitID:     c.Device.UnitID,
			Address:    st.Address,
			Transport:  st.Transport,
			DeviceName: st.DeviceName,
		}
		if st.UnitID != nil {
			sp.UnitID = *st.UnitID
		}
		plan.Status = sp
	}

	return plan
}

// BuildEndpointClient creates one client for endpoint over the named transport.
func BuildEndpointClient(transport, endpoint string, timeout time.Duration) (EndpointClient, func() error, error) {
	switch transport {
	case "", cfg.TransportModbus:
		c, err := tmodbus.Dial(tmodbus.Config{
			Endpoint: endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	case cfg.TransportIngest:
		c, err := ingest.NewEndpointClient(ingest.Config{
			Endpoint: endpoint,
			Timeout:  timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c.Close, nil

	default:
		return nil, nil, fmt.Errorf("writer: unknown transport %q", transport)
	}
}
