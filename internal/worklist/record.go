package worklist

import (
	"fmt"
	"strconv"

	"volmigrate/internal/cloudstack"
)

// NotAvailable marks an optional field the platform had no value for.
// Detached volumes have no vmname/vmstate, account-scoped volumes no project.
const NotAvailable = "n.a."

// Record is a fully populated volume record. Every field is always present;
// optional source fields default to NotAvailable rather than being absent.
type Record struct {
	ID      string
	Domain  string
	Project string
	VMName  string
	VMState string
	Name    string
	State   string
	Storage string
	Size    int64
}

// Normalize converts a raw inventory record into a Record. Missing vmname,
// vmstate, project, or storage become NotAvailable; a missing id, domain,
// name, state, or size violates the platform contract and is an error.
func Normalize(raw cloudstack.VolumeAttrs) (Record, error) {
	record := Record{
		Project: NotAvailable,
		VMName:  NotAvailable,
		VMState: NotAvailable,
		Storage: NotAvailable,
	}

	var err error
	if record.ID, err = requiredString(raw, "id"); err != nil {
		return Record{}, err
	}
	if record.Domain, err = requiredString(raw, "domain"); err != nil {
		return Record{}, err
	}
	if record.Name, err = requiredString(raw, "name"); err != nil {
		return Record{}, err
	}
	if record.State, err = requiredString(raw, "state"); err != nil {
		return Record{}, err
	}
	if record.Size, err = requiredSize(raw); err != nil {
		return Record{}, err
	}

	for key, target := range map[string]*string{
		"project": &record.Project,
		"vmname":  &record.VMName,
		"vmstate": &record.VMState,
		"storage": &record.Storage,
	} {
		if value, ok := raw[key].(string); ok {
			*target = value
		}
	}

	return record, nil
}

func requiredString(raw cloudstack.VolumeAttrs, key string) (string, error) {
	value, ok := raw[key].(string)
	if !ok {
		return "", fmt.Errorf("volume record missing required field %q", key)
	}
	return value, nil
}

func requiredSize(raw cloudstack.VolumeAttrs) (int64, error) {
	switch value := raw["size"].(type) {
	case float64:
		return int64(value), nil
	case string:
		size, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("volume record field %q: %w", "size", err)
		}
		return size, nil
	default:
		return 0, fmt.Errorf("volume record missing required field %q", "size")
	}
}
