package models

// This file serves as the central export point for all database models
// Import this package to access all model types

// All models are automatically exported from their respective files:
// - StudentProfile and its nested records from profile.go
// - ParsedDocument, ParsedData from document.go
// - University from university.go
// - UniversityMatch, MatchingRecommendations from match.go (never persisted)

// Database schema overview:
// 1. student_profiles - One row per student, nested sections stored as JSONB
// 2. parsed_documents - Immutable structured extractions, many per student
// 3. universities - Read-only catalog consumed by the matching engine
