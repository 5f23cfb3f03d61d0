// Package models defines client-side data models used by the authdesk CLI.
package models
