package mssql

// Diagnostic queries, all read-only against system views.

const queryServerInfo = `
SELECT
    CAST(SERVERPROPERTY('MachineName') AS NVARCHAR(128)),
    CAST(SERVERPROPERTY('ProductVersion') AS NVARCHAR(32)),
    CAST(SERVERPROPERTY('ProductMajorVersion') AS INT),
    CAST(SERVERPROPERTY('Edition') AS NVARCHAR(128)),
    (SELECT total_physical_memory_kb / 1024 FROM sys.dm_os_sys_memory),
    (SELECT COUNT(*) FROM sys.dm_os_schedulers WHERE status = 'VISIBLE ONLINE'),
    (SELECT COUNT(DISTINCT parent_node_id) FROM sys.dm_os_schedulers WHERE status = 'VISIBLE ONLINE')`

const queryConfig = `
SELECT name, CAST(value_in_use AS BIGINT)
FROM sys.configurations
WHERE name IN (
    'min server memory (MB)', 'max server memory (MB)',
    'optimize for ad hoc workloads', 'remote admin connections',
    'backup compression default', 'max degree of parallelism')`

const queryDatabases = `
SELECT d.name,
    d.is_auto_create_stats_on, d.is_auto_update_stats_on,
    d.page_verify_option_desc, d.compatibility_level, d.recovery_model_desc,
    (SELECT COUNT(*) FROM sys.dm_db_log_info(d.database_id)) AS vlf_count
FROM sys.databases d
WHERE d.state_desc = 'ONLINE' AND d.database_id > 4`

const queryFiles = `
SELECT DB_NAME(mf.database_id), mf.name,
    CASE WHEN mf.max_size = -1 THEN -1 ELSE CAST(mf.max_size AS BIGINT) * 8 / 1024 END,
    mf.is_percent_growth,
    CASE WHEN mf.is_percent_growth = 1 THEN mf.growth ELSE CAST(mf.growth AS BIGINT) * 8 / 1024 END
FROM sys.master_files mf
WHERE mf.database_id > 4`

const queryTraceFlags = `DBCC TRACESTATUS(-1) WITH NO_INFOMSGS`

const queryOnlineDatabases = `
SELECT name FROM sys.databases WHERE state_desc = 'ONLINE' AND database_id > 4`

// Last known good CHECKDB only surfaces through DBCC DBINFO; run per database
// and pick out the dbi_dbccLastKnownGood field.
const queryDBInfoFmt = `DBCC DBINFO ('%s') WITH TABLERESULTS, NO_INFOMSGS`

const queryBackups = `
SELECT d.name, d.recovery_model_desc,
    ISNULL(MAX(CASE WHEN bs.type = 'D' THEN bs.backup_finish_date END), '1900-01-01'),
    ISNULL(MAX(CASE WHEN bs.type = 'L' THEN bs.backup_finish_date END), '1900-01-01')
FROM sys.databases d
LEFT JOIN msdb.dbo.backupset bs ON bs.database_name = d.name
WHERE d.state_desc = 'ONLINE' AND d.database_id > 4
GROUP BY d.name, d.recovery_model_desc`

const queryTempFiles = `
SELECT name, CASE WHEN type = 0 THEN 1 ELSE 0 END, CAST(size AS BIGINT) * 8 / 1024
FROM tempdb.sys.database_files`
