// Package domain defines the records exchanged with the homework API.
//
// Domain models are plain value objects without IO dependencies:
//
//   - User, Role: the authenticated account and role checks
//   - Teacher/Student/Group inputs: admin roster management
//   - Homework: assignments and the language table
//   - Submission, Grade: student work and AI/teacher grading
//   - Leaderboard, Period: ranking views
//   - Errors: local validation failures with stable codes
//
// Validation here only covers what the client can check before a
// request is sent; the server remains the authority.
package domain
