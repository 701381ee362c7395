package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/backup"
	backupTypes "github.com/aws/aws-sdk-go-v2/service/backup/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/capt-harlock/spyglass/internal/logger"
	"github.com/capt-harlock/spyglass/pkg/types"
)

// AWSBackupProvider reads vaults, plans and backup jobs from AWS Backup.
// Vaults map to repositories, plans to jobs and backup jobs to sessions;
// the remaining kinds are not part of the AWS Backup model and are
// reported as unsupported so their sections show up as skipped.
type AWSBackupProvider struct {
	name         string
	region       string
	accountID    string
	profiles     []string
	accessKey    string
	secretKey    string
	awsConfig    aws.Config
	backupClient *backup.Client
	logger       *logger.Logger
}

func NewAWSBackupProvider(config *types.ProviderConfig, logger *logger.Logger) (*AWSBackupProvider, error) {
	provider := &AWSBackupProvider{
		name:      config.Name,
		region:    config.Region,
		profiles:  config.Profiles,
		accessKey: config.AccessKey,
		secretKey: config.SecretKey,
		logger:    logger,
	}

	if err := provider.initAWSConfig(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize AWS configuration: %w", err)
	}

	return provider, nil
}

func (p *AWSBackupProvider) initAWSConfig(ctx context.Context) error {
	var cfg aws.Config
	var err error

	if p.accessKey != "" && p.secretKey != "" {
		p.logger.Debug("aws_using_credentials").
			Str("access_key", p.accessKey[:min(8, len(p.accessKey))]+"...").
			Send()
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(p.region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				p.accessKey,
				p.secretKey,
				"",
			)),
		)
	} else if len(p.profiles) > 0 {
		p.logger.Debug("aws_using_profiles").
			Strs("profiles", p.profiles).
			Send()

		for i, profile := range p.profiles {
			p.logger.Debug("aws_trying_profile").
				Str("profile", profile).
				Int("attempt", i+1).
				Send()

			cfg, err = awsconfig.LoadDefaultConfig(ctx,
				awsconfig.WithRegion(p.region),
				awsconfig.WithSharedConfigProfile(profile),
			)

			if err == nil {
				p.logger.Info("aws_profile_success").
					Str("profile", profile).
					Send()
				break
			}

			p.logger.Warn("aws_profile_failed").
				Str("profile", profile).
				Err(err).
				Send()
		}

		if err != nil {
			return fmt.Errorf("%w: all AWS profiles failed: %v", ErrAuth, err)
		}
	} else {
		p.logger.Debug("aws_using_default_credentials").Send()
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(p.region),
		)
	}

	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	p.awsConfig = cfg
	p.backupClient = backup.NewFromConfig(cfg)

	return nil
}

func (p *AWSBackupProvider) GetName() string {
	return p.name
}

func (p *AWSBackupProvider) GetType() string {
	return "awsbackup"
}

func (p *AWSBackupProvider) IsHealthy(ctx context.Context) error {
	stsClient := sts.NewFromConfig(p.awsConfig)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}

	p.accountID = aws.ToString(result.Account)
	p.logger.Debug("provider_healthy").
		Str("provider", p.name).
		Str("account_id", p.accountID).
		Send()

	return nil
}

// Host identifies the account and region the report was generated against.
func (p *AWSBackupProvider) Host() string {
	if p.accountID == "" {
		return "aws:" + p.region
	}
	return fmt.Sprintf("aws:%s:%s", p.accountID, p.region)
}

func (p *AWSBackupProvider) Fetch(ctx context.Context, kind types.EntityKind, filter Filter) ([]types.RawRecord, error) {
	var records []types.RawRecord
	var err error

	switch kind {
	case types.KindRepositories:
		records, err = p.fetchVaults(ctx)
	case types.KindJobs:
		records, err = p.fetchPlans(ctx)
	case types.KindSessions:
		records, err = p.fetchBackupJobs(ctx, filter)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}

	return records, wrapFetchErr(err, kind)
}

func (p *AWSBackupProvider) fetchVaults(ctx context.Context) ([]types.RawRecord, error) {
	var records []types.RawRecord

	paginator := backup.NewListBackupVaultsPaginator(p.backupClient, &backup.ListBackupVaultsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing backup vaults: %w", err)
		}

		for _, vault := range page.BackupVaultList {
			records = append(records, types.RawRecord{
				"Name":           aws.ToString(vault.BackupVaultName),
				"Type":           "AWS Backup Vault",
				"Path":           aws.ToString(vault.BackupVaultArn),
				"RecoveryPoints": vault.NumberOfRecoveryPoints,
			})
		}
	}

	return records, nil
}

func (p *AWSBackupProvider) fetchPlans(ctx context.Context) ([]types.RawRecord, error) {
	var records []types.RawRecord

	paginator := backup.NewListBackupPlansPaginator(p.backupClient, &backup.ListBackupPlansInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing backup plans: %w", err)
		}

		for _, plan := range page.BackupPlansList {
			record := types.RawRecord{
				"Name": aws.ToString(plan.BackupPlanName),
				"Type": "AWS Backup Plan",
			}
			if plan.LastExecutionDate != nil {
				record["LastResult"] = "Success"
				record["LastRun"] = *plan.LastExecutionDate
			}
			records = append(records, record)
		}
	}

	return records, nil
}

func (p *AWSBackupProvider) fetchBackupJobs(ctx context.Context, filter Filter) ([]types.RawRecord, error) {
	input := &backup.ListBackupJobsInput{}
	if !filter.Since.IsZero() {
		input.ByCreatedAfter = aws.Time(filter.Since)
	}

	var records []types.RawRecord

	paginator := backup.NewListBackupJobsPaginator(p.backupClient, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing backup jobs: %w", err)
		}

		for _, job := range page.BackupJobs {
			record := types.RawRecord{
				"JobName": backupJobName(job),
				"Type":    aws.ToString(job.ResourceType),
				"Result":  backupJobResult(job.State),
				"State":   backupJobState(job.State),
			}
			if job.CreationDate != nil {
				record["CreationTime"] = *job.CreationDate
			}
			if job.CompletionDate != nil {
				record["EndTime"] = *job.CompletionDate
			}
			if job.BackupSizeInBytes != nil {
				record["ProcessedSize"] = *job.BackupSizeInBytes
				record["TransferredSize"] = *job.BackupSizeInBytes
			}
			records = append(records, record)
		}
	}

	return records, nil
}

func backupJobName(job backupTypes.BackupJob) string {
	if name := aws.ToString(job.ResourceName); name != "" {
		return name
	}
	arn := aws.ToString(job.ResourceArn)
	if idx := strings.LastIndex(arn, "/"); idx >= 0 && idx < len(arn)-1 {
		return arn[idx+1:]
	}
	return arn
}

func backupJobResult(state backupTypes.BackupJobState) string {
	switch state {
	case backupTypes.BackupJobStateCompleted:
		return "Success"
	case backupTypes.BackupJobStatePartial:
		return "Warning"
	case backupTypes.BackupJobStateFailed, backupTypes.BackupJobStateAborted, backupTypes.BackupJobStateExpired:
		return "Failed"
	}
	return "None"
}

func backupJobState(state backupTypes.BackupJobState) string {
	switch state {
	case backupTypes.BackupJobStateCreated, backupTypes.BackupJobStatePending, backupTypes.BackupJobStateRunning, backupTypes.BackupJobStateAborting:
		return "Working"
	}
	return "Stopped"
}
