//go:build consul

package discovery

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"

	"sqlfleet/pkg/model"
)

// ConsulTargets lists the nodes registered for a catalog service (typically
// "mssql") and returns them as scan targets (requires build tag consul).
func ConsulTargets(addr, service, domain string) ([]model.Target, error) {
	cfg := consulapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	cli, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	entries, _, err := cli.Catalog().Service(service, "", nil)
	if err != nil {
		return nil, fmt.Errorf("consul catalog %s: %w", service, err)
	}

	seen := map[string]bool{}
	var targets []model.Target
	for _, e := range entries {
		host := e.Node
		if e.ServiceAddress != "" {
			host = e.ServiceAddress
		}
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		target := model.Target{Host: host, Domain: domain}
		// an "instance" service meta key carries named instances on the node
		if inst, ok := e.ServiceMeta["instance"]; ok && inst != "" {
			target.Instances = []string{inst}
		}
		targets = append(targets, target)
	}
	return targets, nil
}
