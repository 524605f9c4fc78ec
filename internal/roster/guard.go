package roster

// AssertOwnership is the single place the ALLOW/DENY decision is expressed.
// The store's owner-gated queries are the inlined form of the same policy;
// this function exists so the policy stays auditable and testable on its own.
// Callers fronting it with a store lookup translate ErrUnauthorized to
// ErrNotFound before the error leaves the package.
func AssertOwnership(ownerID string, s Student) error {
	if ownerID == "" || s.OwnerID != ownerID {
		return ErrUnauthorized
	}
	return nil
}
