package delivery

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pdfcourier/api/internal/client"
	"github.com/pdfcourier/api/internal/config"
	"github.com/pdfcourier/api/internal/model"
)

// ShareFolder uploads the artifacts into a per-job storage folder and
// grants the recipient read access. Individual upload failures are
// tallied in the result; only a missing folder or a failed grant
// sinks the delivery.
type ShareFolder struct {
	storage    client.StorageClient
	publicBase bool
	linkExpiry time.Duration
}

// NewShareFolder creates the share delivery strategy
func NewShareFolder(storage client.StorageClient, cfg *config.StorageConfig) *ShareFolder {
	expiry := time.Duration(cfg.LinkExpiryHours) * time.Hour
	if cfg.LinkExpiryHours <= 0 {
		expiry = 72 * time.Hour
	}
	return &ShareFolder{
		storage:    storage,
		publicBase: cfg.PublicURL != "",
		linkExpiry: expiry,
	}
}

// Deliver uploads everything and shares the folder
func (s *ShareFolder) Deliver(ctx context.Context, req *Request) *model.DeliveryResult {
	res := &model.DeliveryResult{
		Strategy:  string(model.StrategyShare),
		Recipient: req.Recipient,
	}

	prefix := fmt.Sprintf("deliveries/%s-%s", slugName(req.FolderName), shortID(req.JobID))
	res.FolderName = prefix[strings.LastIndex(prefix, "/")+1:]

	if err := s.storage.CreateFolder(ctx, prefix); err != nil {
		res.Error = fmt.Sprintf("failed to create delivery folder: %v", err)
		return res
	}

	uploaded := 0
	var failures []string
	seen := make(map[string]bool)

	for _, a := range req.Result.Success {
		key := prefix + "/" + a.FileName
		if seen[a.FileName] {
			key = fmt.Sprintf("%s/%03d_%s", prefix, a.Index, a.FileName)
			log.Printf("[Delivery] job=%s duplicate name %s stored as %s", req.JobID, a.FileName, key)
		}
		seen[a.FileName] = true

		if err := s.uploadFile(ctx, key, a.LocalPath); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", a.FileName, err))
			continue
		}
		uploaded++
	}

	if _, err := s.storage.Upload(ctx, prefix+"/"+IndexFileName,
		strings.NewReader(BuildIndex(req.Result)), "text/plain"); err != nil {
		failures = append(failures, fmt.Sprintf("%s: %v", IndexFileName, err))
	}

	res.UploadedCount = uploaded
	res.UploadFailures = failures

	if err := s.storage.ShareFolder(ctx, prefix, req.Recipient); err != nil {
		// Leave no unshareable folder behind; the uploads themselves
		// stay for manual recovery
		if derr := s.storage.Delete(ctx, prefix+"/"); derr != nil {
			log.Printf("[Delivery] job=%s marker cleanup failed: %v", req.JobID, derr)
		}
		res.Error = fmt.Sprintf("failed to share folder with %s: %v", req.Recipient, err)
		return res
	}

	res.FolderURL = s.folderLink(ctx, prefix)
	res.Success = true
	return res
}

func (s *ShareFolder) uploadFile(ctx context.Context, key, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = s.storage.Upload(ctx, key, src, "application/pdf")
	return err
}

// folderLink prefers the public CDN URL; without one the recipient
// gets a presigned link to the summary index
func (s *ShareFolder) folderLink(ctx context.Context, prefix string) string {
	if s.publicBase {
		return s.storage.GetPublicURL(prefix)
	}
	link, err := s.storage.GetSignedURL(ctx, prefix+"/"+IndexFileName, s.linkExpiry)
	if err != nil {
		log.Printf("[Delivery] presign failed for %s: %v", prefix, err)
		return s.storage.GetPublicURL(prefix)
	}
	return link
}
