package commands

import (
	"fmt"
	"log"

	"productiva/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: companies.",
		Query: `
        CREATE TABLE IF NOT EXISTS companies (
            id serial primary key,
            name text not null,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       2,
		Description: "Create table: locations.",
		Query: `
        CREATE TABLE IF NOT EXISTS locations (
            id serial primary key,
            company_id int references companies(id),
            name text not null,
            active bool default true,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       3,
		Description: "Create table: employees.",
		Query: `
        CREATE TABLE IF NOT EXISTS employees (
            id serial primary key,
            company_id int references companies(id),
            location_id int references locations(id),
            full_name text not null,
            active bool default true,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       4,
		Description: "Create table: local_users.",
		Query: `
        CREATE TABLE IF NOT EXISTS local_users (
            id serial primary key,
            location_id int references locations(id),
            name text not null,
            pin_hash text not null,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       5,
		Description: "Create table: checkpoints.",
		Query: `
        CREATE TABLE IF NOT EXISTS checkpoints (
            id serial primary key,
            location_id int references locations(id),
            name text not null,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       6,
		Description: "Create table: checkpoint_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS checkpoint_records (
            id serial primary key,
            employee_id int not null references employees(id),
            checkpoint_id int not null references checkpoints(id),
            check_in_time timestamp not null,
            check_out_time timestamp,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       7,
		Description: "Create table: checkpoint_original_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS checkpoint_original_records (
            id serial primary key,
            record_id int not null references checkpoint_records(id),
            original_check_in_time timestamp not null,
            original_check_out_time timestamp,
            hours_worked numeric(7,2)
        );`,
	},
	{
		Index:       8,
		Description: "Create type: task_frequency.",
		Query: `
        CREATE TYPE "task_frequency" AS ENUM ('DAILY','WEEKLY','BIWEEKLY','MONTHLY','CUSTOM');`,
	},
	{
		Index:       9,
		Description: "Create type: task_status.",
		Query: `
        CREATE TYPE "task_status" AS ENUM ('PENDING','COMPLETED','EXPIRED','CANCELLED');`,
	},
	{
		Index:       10,
		Description: "Create table: tasks.",
		Query: `
        CREATE TABLE IF NOT EXISTS tasks (
            id serial primary key,
            location_id int references locations(id),
            title text not null,
            frequency task_frequency not null,
            status task_status default 'PENDING',
            start_date timestamp,
            end_date timestamp,
            current_week_completed bool default false,
            current_month_completed bool default false,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       11,
		Description: "Create table: task_weekdays.",
		Query: `
        CREATE TABLE IF NOT EXISTS task_weekdays (
            id serial primary key,
            task_id int not null references tasks(id),
            weekday int not null check (weekday between 0 and 6)
        );`,
	},
	{
		Index:       12,
		Description: "Create table: task_monthdays.",
		Query: `
        CREATE TABLE IF NOT EXISTS task_monthdays (
            id serial primary key,
            task_id int not null references tasks(id),
            day_of_month int not null check (day_of_month between 1 and 31)
        );`,
	},
	{
		Index:       13,
		Description: "Create table: task_schedules.",
		Query: `
        CREATE TABLE IF NOT EXISTS task_schedules (
            id serial primary key,
            task_id int not null references tasks(id),
            day_of_week int,
            day_of_month int,
            start_time text,
            end_time text
        );`,
	},
	{
		Index:       14,
		Description: "Create table: task_instances with unique (task_id, scheduled_date).",
		Query: `
        CREATE TABLE IF NOT EXISTS task_instances (
            id serial primary key,
            task_id int not null references tasks(id),
            scheduled_date date not null,
            status task_status default 'PENDING',
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int,
            UNIQUE (task_id, scheduled_date)
        );`,
	},
	{
		Index:       15,
		Description: "Create table: task_completions.",
		Query: `
        CREATE TABLE IF NOT EXISTS task_completions (
            id serial primary key,
            task_id int not null references tasks(id),
            local_user_id int references local_users(id),
            completion_date timestamp not null default now(),
            notes text
        );`,
	},
	{
		Index:       16,
		Description: "Create table: employee_work_hours with unique accumulator key.",
		Query: `
        CREATE TABLE IF NOT EXISTS employee_work_hours (
            id serial primary key,
            employee_id int not null references employees(id),
            year int not null,
            month int not null,
            week_number int not null,
            daily_hours numeric(9,2) default 0,
            weekly_hours numeric(9,2) default 0,
            monthly_hours numeric(9,2) default 0,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int,
            UNIQUE (employee_id, year, month, week_number)
        );`,
	},
	{
		Index:       17,
		Description: "Create table: company_work_hours with unique accumulator key.",
		Query: `
        CREATE TABLE IF NOT EXISTS company_work_hours (
            id serial primary key,
            company_id int not null references companies(id),
            year int not null,
            month int not null,
            week_number int not null,
            weekly_hours numeric(11,2) default 0,
            monthly_hours numeric(11,2) default 0,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int,
            UNIQUE (company_id, year, month, week_number)
        );`,
	},
	{
		Index:       18,
		Description: "Create table: employee_contract_hours.",
		Query: `
        CREATE TABLE IF NOT EXISTS employee_contract_hours (
            id serial primary key,
            employee_id int not null references employees(id),
            daily_hours numeric(5,2),
            weekly_hours numeric(6,2),
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int,
            UNIQUE (employee_id)
        );`,
	},
	{
		Index:       19,
		Description: "Index open checkpoint records per employee.",
		Query: `
        CREATE INDEX IF NOT EXISTS idx_checkpoint_records_open
        ON checkpoint_records (employee_id)
        WHERE check_out_time IS NULL AND deleted_at IS NULL;`,
	},
	{
		Index:       20,
		Description: "Index task completions by task and date.",
		Query: `
        CREATE INDEX IF NOT EXISTS idx_task_completions_task_date
        ON task_completions (task_id, completion_date);`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
