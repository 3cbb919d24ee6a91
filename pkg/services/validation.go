package services

import (
	"fmt"

	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/openshift-online/watchdog/pkg/api"
)

// ValidateServer checks a registry entry before it is stored. A server publishes to
// heartbeat.<name>, so the name must be a single subject token: a DNS-1123 label.
func ValidateServer(server *api.Server) error {
	errs := field.ErrorList{}
	namePath := field.NewPath("server").Child("name")
	for _, msg := range utilvalidation.IsDNS1123Label(server.Name) {
		errs = append(errs, field.Invalid(namePath, server.Name, msg))
	}
	if server.Zone == "" {
		errs = append(errs, field.Required(field.NewPath("server").Child("zone"), "zone is required"))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%s", errs.ToAggregate().Error())
}

// ValidateZone checks the zone of a best-server query. Zones are opaque, any non blank value is accepted.
func ValidateZone(zone string) error {
	if zone == "" {
		return field.Required(field.NewPath("zone"), "zone query parameter is required")
	}
	return nil
}
