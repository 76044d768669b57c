package backend

import apperrors "ats-console/internal/common/errors"

func notFound(resource, id string) error {
	return apperrors.NewNotFoundError(resource, "").WithMetadata("id", id)
}
