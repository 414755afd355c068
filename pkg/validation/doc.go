/*
Package validation implements the contact form Field Validator.

Rules are evaluated in order and the first failure wins:

 1. an empty value (after trimming whitespace) is required;
 2. an email field must look like local@domain.tld;
 3. the message field needs at least 10 trimmed characters.

Validate is pure. Apply also reflects the result in the field's presentation
state (the "error" class and the inline error text).
*/
package validation
