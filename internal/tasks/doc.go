// Package tasks orchestrates multi-request catalog operations with progress reporting.
//
// # Save Saga
//
// Creating or updating a movie with a poster takes two requests: the record is saved first, then
// the poster is uploaded against the record's id. [Saga] runs both stages and reports one of three
// outcomes:
//
//   - [OutcomeSucceeded] : the record was saved and the poster (if any) uploaded
//   - [OutcomeAttachmentFailed] : the record was saved but the upload failed; nothing is rolled back
//   - [OutcomeFailed] : the record was not saved and no upload was attempted
//
// # Catalog Export
//
// [Exporter] walks every page of the list endpoint at a bounded request rate and collects the
// catalog for the formatter package. The first failing page aborts the export.
//
// # Progress Reporting
//
// Both send [ProgressUpdate] values on an optional channel. Sends use select with default, so a
// slow or absent reader never blocks a request.
package tasks
