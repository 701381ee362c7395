package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
)

var (
	veleroBackupGVR = schema.GroupVersionResource{
		Group: "velero.io", Version: "v1", Resource: "backups",
	}
	veleroScheduleGVR = schema.GroupVersionResource{
		Group: "velero.io", Version: "v1", Resource: "schedules",
	}
	veleroBSLGVR = schema.GroupVersionResource{
		Group: "velero.io", Version: "v1", Resource: "backupstoragelocations",
	}
)

// VeleroProvider reads Velero custom resources through the Kubernetes
// dynamic client. Backups map to sessions, schedules to jobs and backup
// storage locations to repositories.
type VeleroProvider struct {
	name      string
	namespace string
	context   string
	dynamic   dynamic.Interface
	discovery discovery.DiscoveryInterface
	logger    *logger.Logger
}

func NewVeleroProvider(config *types.ProviderConfig, logger *logger.Logger) (*VeleroProvider, error) {
	logger.Debug("velero_connecting").
		Str("context", config.Context).
		Send()

	kubeconfig := getKubeconfigPath()

	configLoader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		&clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig},
		&clientcmd.ConfigOverrides{CurrentContext: config.Context},
	)

	restConfig, err := configLoader.ClientConfig()
	if err != nil {
		logger.Error("velero_connection_failed").Err(err).Send()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		logger.Error("velero_connection_failed").Err(err).Send()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	discoveryClient, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		logger.Error("velero_connection_failed").Err(err).Send()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	namespace := config.Namespace
	if namespace == "" {
		namespace = "velero"
	}

	logger.Info("velero_connected").
		Str("namespace", namespace).
		Send()

	return &VeleroProvider{
		name:      config.Name,
		namespace: namespace,
		context:   config.Context,
		dynamic:   dynamicClient,
		discovery: discoveryClient,
		logger:    logger,
	}, nil
}

func getKubeconfigPath() string {
	if kubeconfig := os.Getenv("KUBECONFIG"); kubeconfig != "" {
		return kubeconfig
	}
	if home := homedir.HomeDir(); home != "" {
		return filepath.Join(home, ".kube", "config")
	}
	return ""
}

func (p *VeleroProvider) GetName() string {
	return p.name
}

func (p *VeleroProvider) GetType() string {
	return "velero"
}

func (p *VeleroProvider) IsHealthy(ctx context.Context) error {
	if _, err := p.discovery.ServerVersion(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *VeleroProvider) Fetch(ctx context.Context, kind types.EntityKind, filter Filter) ([]types.RawRecord, error) {
	var records []types.RawRecord
	var err error

	switch kind {
	case types.KindSessions:
		records, err = p.fetchBackups(ctx, filter)
	case types.KindJobs:
		records, err = p.fetchSchedules(ctx)
	case types.KindRepositories:
		records, err = p.fetchStorageLocations(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	return records, wrapFetchErr(err, kind)
}

func (p *VeleroProvider) fetchBackups(ctx context.Context, filter Filter) ([]types.RawRecord, error) {
	list, err := p.dynamic.Resource(veleroBackupGVR).Namespace(p.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing velero backups: %w", err)
	}

	var records []types.RawRecord
	for _, item := range list.Items {
		phase, _, _ := unstructured.NestedString(item.Object, "status", "phase")

		record := types.RawRecord{
			"JobName": backupJobLabel(&item),
			"Type":    "Velero Backup",
			"Result":  veleroResult(phase),
			"State":   veleroState(phase),
		}

		if started, ok := nestedTime(&item, "status", "startTimestamp"); ok {
			if !filter.Since.IsZero() && started.Before(filter.Since) {
				continue
			}
			record["CreationTime"] = started
		}
		if completed, ok := nestedTime(&item, "status", "completionTimestamp"); ok {
			record["EndTime"] = completed
		}

		records = append(records, record)
	}

	return records, nil
}

func (p *VeleroProvider) fetchSchedules(ctx context.Context) ([]types.RawRecord, error) {
	list, err := p.dynamic.Resource(veleroScheduleGVR).Namespace(p.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing velero schedules: %w", err)
	}

	var records []types.RawRecord
	for _, item := range list.Items {
		cron, _, _ := unstructured.NestedString(item.Object, "spec", "schedule")
		paused, _, _ := unstructured.NestedBool(item.Object, "spec", "paused")

		record := types.RawRecord{
			"Name":       item.GetName(),
			"Type":       "Velero Schedule",
			"IsDisabled": paused,
		}
		if cron != "" {
			record["ScheduleSummary"] = cron
		}
		if lastBackup, ok := nestedTime(&item, "status", "lastBackup"); ok {
			record["LastResult"] = "Success"
			record["LastRun"] = lastBackup
		}

		records = append(records, record)
	}

	return records, nil
}

func (p *VeleroProvider) fetchStorageLocations(ctx context.Context) ([]types.RawRecord, error) {
	list, err := p.dynamic.Resource(veleroBSLGVR).Namespace(p.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing velero backup storage locations: %w", err)
	}

	var records []types.RawRecord
	for _, item := range list.Items {
		objectStorageProvider, _, _ := unstructured.NestedString(item.Object, "spec", "provider")
		bucket, _, _ := unstructured.NestedString(item.Object, "spec", "objectStorage", "bucket")
		phase, _, _ := unstructured.NestedString(item.Object, "status", "phase")

		records = append(records, types.RawRecord{
			"Name":          item.GetName(),
			"Type":          objectStorageProvider,
			"Path":          bucket,
			"IsUnavailable": phase != "" && phase != "Available",
		})
	}

	return records, nil
}

func backupJobLabel(item *unstructured.Unstructured) string {
	if schedule, ok := item.GetLabels()["velero.io/schedule-name"]; ok && schedule != "" {
		return schedule
	}
	return item.GetName()
}

func nestedTime(item *unstructured.Unstructured, fields ...string) (time.Time, bool) {
	value, found, err := unstructured.NestedString(item.Object, fields...)
	if !found || err != nil || value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func veleroResult(phase string) string {
	switch phase {
	case "Completed":
		return "Success"
	case "PartiallyFailed":
		return "Warning"
	case "Failed", "FailedValidation":
		return "Failed"
	}
	return "None"
}

func veleroState(phase string) string {
	switch phase {
	case "New", "InProgress", "WaitingForPluginOperations":
		return "Working"
	}
	return "Stopped"
}
