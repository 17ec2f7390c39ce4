package workflow

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/sitework_backend/config"
	"bitbucket.org/mmdatafocus/sitework_backend/models"
	"bitbucket.org/mmdatafocus/sitework_backend/utils"
)

// SignOutAndProcess closes a sign-in and, when AUTO_TIME_ENTRY_ON_SIGN_OUT
// is enabled and the sign-in carries a project, derives the Pending time
// entry from it. A failed derivation does not undo the sign-out; the entry
// can still be created manually, so the error is logged and the closed
// sign-in returned.
func SignOutAndProcess(ctx context.Context, signInId int, signOutTime time.Time) (*models.DailySignIn, *models.TimeEntry, error) {

	signIn, err := models.SignOutDailySignIn(ctx, signInId, signOutTime)
	if err != nil {
		return nil, nil, err
	}

	if !config.AutoTimeEntryOnSignOut() || signIn.ProjectId == 0 {
		return signIn, nil, nil
	}

	entry, err := models.AutoCreateTimeEntryFromSignIn(ctx, signIn.ID, signIn.ProjectId)
	if err != nil {
		correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
		config.LogError(config.GetLogger(), "workflow", "SignOutAndProcess",
			"auto time entry from sign-in",
			map[string]interface{}{"sign_in_id": signIn.ID, "correlation_id": correlationId}, err)
		return signIn, nil, nil
	}

	return signIn, entry, nil
}
