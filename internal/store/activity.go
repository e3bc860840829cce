package store

// appendActivityLocked records an audit entry. Callers hold s.mu. The
// log keeps only the most recent activityLogCap entries.
func (s *Store) appendActivityLocked(actorID, action, targetType, targetID, detail string) {
	entry := ActivityEntry{
		ID:         s.newID(),
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
		CreatedAt:  s.now(),
	}
	s.activity = append(s.activity, entry)
	if overflow := len(s.activity) - activityLogCap; overflow > 0 {
		s.activity = append(s.activity[:0:0], s.activity[overflow:]...)
	}
}

// ListActivity returns the audit trail, oldest first.
func (s *Store) ListActivity() []ActivityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ActivityEntry, len(s.activity))
	copy(out, s.activity)
	return out
}
