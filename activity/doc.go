// Package activity persists the audit trail of profile field changes. The
// Repository implements both types.ActivitySink (writes) and
// types.ActivityRepository (reads) so the service can log definition and
// value changes and admin panels can page through them.
package activity
