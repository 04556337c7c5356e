//go:build !consul

package discovery

import (
	"fmt"

	"sqlfleet/pkg/model"
)

// ConsulTargets is unavailable without the consul build tag.
func ConsulTargets(addr, service, domain string) ([]model.Target, error) {
	return nil, fmt.Errorf("consul discovery requested (addr=%s service=%s) but the consul build tag is not enabled", addr, service)
}
