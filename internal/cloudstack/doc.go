// Package cloudstack wraps the subset of the Apache CloudStack management API
// that volume migration needs: project, volume, and storage pool listings,
// migrateVolume submission, and async job polling.
//
// Requests use the signed HTTP query protocol (sorted lowercase query string,
// HMAC-SHA1 over it with the account's secret key). List responses for volumes
// are returned as raw key-value records so that field presence decisions stay
// in the worklist normalizer instead of being baked into JSON struct tags.
//
// The client performs no retries and applies no timeout unless one is
// configured; the tool is operator-attended and a hung call should stay
// visible rather than being papered over.
package cloudstack
