package db

// OwnedBy reports whether the note belongs to the given account.
func (n Note) OwnedBy(accountID uint64) bool {
	return n.AccountID == accountID
}
