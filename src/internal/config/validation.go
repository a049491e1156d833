package config

import (
	"fmt"
	"net"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

var (
	chainRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,28}$`)
	idRegexp    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)
	ifaceRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]{1,15}$`)
)

// getValidationMessage returns a human-readable message for a validation error
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "wg_address":
		return "must be a dotted-quad IPv4 address (e.g. 10.0.1.1)"
	case "wg_network":
		return "must be an IPv4 network in address/mask form (e.g. 10.0.1.0/24)"
	case "wg_port":
		return "must be a port number in range 1-65535"
	case "wg_key":
		return "must be a base64-encoded 32-byte WireGuard key"
	case "wg_id":
		return "must start with a letter or digit and contain only [A-Za-z0-9_.-] (max 64)"
	case "wg_iface":
		return "must be a valid interface name [A-Za-z0-9_-] (max 15)"
	case "ns_template":
		return "must contain {{router_id}}"
	case "iptables_chain":
		return "must be a valid iptables chain name"
	case "hostport_or_empty":
		return "must be in format 'host:port' or empty"
	case "wg_host":
		return "must be a valid DNS name or IPv4 address"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}

// ValidationError represents a single validation error with context
type ValidationError struct {
	ItemName  string // Record or section the error belongs to (e.g., "router R1", "lan L1")
	FieldPath string // Dot-notation field path (e.g., "general.run_dir", "network")
	Message   string // Human-readable error message
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed with %d error(s):\n", len(ve)))
	for i, err := range ve {
		if err.ItemName != "" {
			sb.WriteString(fmt.Sprintf("  %d. [%s] %s: %s\n", i+1, err.ItemName, err.FieldPath, err.Message))
		} else {
			sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.FieldPath, err.Message))
		}
	}
	return sb.String()
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	register := func(tag string, fn validator.Func) {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	register("wg_address", func(fl validator.FieldLevel) bool {
		return utils.IsValidAddress(fl.Field().String())
	})
	register("wg_network", func(fl validator.FieldLevel) bool {
		return utils.IsValidNetwork(fl.Field().String())
	})
	register("wg_port", func(fl validator.FieldLevel) bool {
		return utils.IsValidPort(int(fl.Field().Int()))
	})
	register("wg_id", func(fl validator.FieldLevel) bool {
		return idRegexp.MatchString(fl.Field().String())
	})
	register("wg_iface", func(fl validator.FieldLevel) bool {
		return ifaceRegexp.MatchString(fl.Field().String())
	})
	register("ns_template", validateNamespaceTemplate)
	register("iptables_chain", func(fl validator.FieldLevel) bool {
		return chainRegexp.MatchString(fl.Field().String())
	})
	register("hostport_or_empty", validateHostPortOrEmpty)
	register("wg_key", func(fl validator.FieldLevel) bool {
		_, err := wgtypes.ParseKey(fl.Field().String())
		return err == nil
	})
	register("wg_host", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return utils.IsValidAddress(value) || utils.IsDNSName(value)
	})

	// Register function to get field name from "toml" tag
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// RegisterValidation adds a custom tag to the shared validator. Must be called from init.
func RegisterValidation(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateStruct runs the shared validator (with wg_* tags) on s and converts
// the result to ValidationErrors. Returns nil when s is valid.
func ValidateStruct(s any, fieldPrefix string, itemName string) ValidationErrors {
	if err := validate.Struct(s); err != nil {
		return convertValidatorErrors(err, fieldPrefix, itemName)
	}
	return nil
}

// Custom validator: namespace template must reference the router id
func validateNamespaceTemplate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !strings.Contains(value, "{{"+NS_TMPL_ROUTER_ID+"}}") {
		return false
	}
	// Linux limits netns names to file names
	return !strings.ContainsAny(RenderNamespaceName(value, "x"), "/ \t\n")
}

// Custom validator: host:port format or empty
func validateHostPortOrEmpty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, _, err := net.SplitHostPort(value)
	return err == nil
}
