package aws

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

func hasCode(err error, codes ...string) bool {
	code := GetErrorCode(err)
	if code == "" {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// IsNotFound reports a missing bucket, key or resource.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if hasCode(err, "NotFound", "NoSuchBucket", "NoSuchKey", "ResourceNotFoundException") {
		return true
	}
	return strings.Contains(err.Error(), "NotFound")
}

// IsAccessDenied reports a permissions failure.
func IsAccessDenied(err error) bool {
	return hasCode(err, "AccessDenied", "AccessDeniedException", "Forbidden", "AllAccessDisabled")
}

// IsCredentialsError reports missing or expired credentials.
func IsCredentialsError(err error) bool {
	if hasCode(err, "ExpiredToken", "ExpiredTokenException", "InvalidAccessKeyId", "SignatureDoesNotMatch") {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "failed to retrieve credentials")
}

// GetErrorCode returns the AWS error code, or "" for non-API errors.
func GetErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// GetErrorMessage returns the AWS error message, or err.Error() for other errors.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}

// Describe turns an upload error into a short user-facing message.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case IsAccessDenied(err):
		return "access denied: " + GetErrorMessage(err)
	case IsCredentialsError(err):
		return "AWS credentials missing or expired"
	case IsNotFound(err):
		return "bucket not found: " + GetErrorMessage(err)
	}
	if code := GetErrorCode(err); code != "" {
		return code + ": " + GetErrorMessage(err)
	}
	return err.Error()
}
