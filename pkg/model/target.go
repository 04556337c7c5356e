package model

import "strings"

// Target is one host to assess, optionally carrying a domain suffix and an
// explicit instance list. Built once from the target source, read-only after.
type Target struct {
	Host      string   `json:"host"`
	Domain    string   `json:"domain,omitempty"`
	Instances []string `json:"instances,omitempty"` // empty: resolve at scan time
}

// FQDN returns the host joined with its domain suffix when one is set.
func (t Target) FQDN() string {
	if t.Domain == "" || strings.Contains(t.Host, ".") {
		return t.Host
	}
	return t.Host + "." + strings.TrimPrefix(t.Domain, ".")
}

// DefaultInstance is the identity suffix used when an instance has no name.
const DefaultInstance = "DEFAULT"

// InstanceIdentity uniquely names one instance in the final report set.
type InstanceIdentity struct {
	Server   string `json:"server"`
	Instance string `json:"instance"` // "DEFAULT" for the unnamed instance
}

func (id InstanceIdentity) String() string {
	if id.Instance == "" || id.Instance == DefaultInstance {
		return id.Server
	}
	return id.Server + "\\" + id.Instance
}
