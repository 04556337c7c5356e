package mssql

import (
	"context"
	"net"
	"strings"
	"time"

	"sqlfleet/pkg/model"
)

const (
	browserPort       = "1434"
	ssrpClientUcastEx = 0x03
)

// ResolveInstances asks the SQL Server Browser service on a host which
// instances are listening (SSRP, UDP 1434). Hosts without a reachable
// browser service resolve to just the default instance.
func ResolveInstances(ctx context.Context, host string, timeout time.Duration) []string {
	names, err := queryBrowser(ctx, host, timeout)
	if err != nil || len(names) == 0 {
		return []string{model.DefaultInstance}
	}
	return names
}

func queryBrowser(ctx context.Context, host string, timeout time.Duration) ([]string, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "udp", net.JoinHostPort(host, browserPort))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(timeout))
	if _, err := conn.Write([]byte{ssrpClientUcastEx}); err != nil {
		return nil, err
	}
	buf := make([]byte, 65536)
	n, err := conn.Read(buf)
	if err != nil {
		return nil, err
	}
	if n < 3 || buf[0] != 0x05 {
		return nil, nil
	}
	return parseBrowserResponse(string(buf[3:n])), nil
}

// parseBrowserResponse extracts instance names from the browser's
// key;value;key;value;... payload; entries are separated by ";;".
func parseBrowserResponse(payload string) []string {
	var names []string
	for _, entry := range strings.Split(payload, ";;") {
		fields := strings.Split(entry, ";")
		for i := 0; i+1 < len(fields); i += 2 {
			if fields[i] != "InstanceName" {
				continue
			}
			name := strings.ToUpper(fields[i+1])
			if name == "" || name == "MSSQLSERVER" {
				name = model.DefaultInstance
			}
			names = append(names, name)
		}
	}
	return names
}
