package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// MarksResourceKey returns the critical-section resource name guarding a
// student's marks. Proctor corrections for one roll number share this key.
func (r *CacheKeyStruct) MarksResourceKey(rollNo string) string {
	return fmt.Sprintf("teacher_%s", rollNo)
}

// CriticalSectionKey returns the Redis key holding the lease for a resource.
func (r *CacheKeyStruct) CriticalSectionKey(resource string) string {
	return fmt.Sprintf("cs:%s", resource)
}

// StudentTaskKey returns the task registry key of a student's cheating monitor.
func (r *CacheKeyStruct) StudentTaskKey(rollNo string) string {
	return fmt.Sprintf("student:%s", rollNo)
}

// SessionTaskKey returns the task registry key of a session's deadline timer.
func (r *CacheKeyStruct) SessionTaskKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

var CacheKey = NewCacheKeyStruct()
