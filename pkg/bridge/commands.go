package bridge

// Command names the host registers. Tests and fixtures refer to these
// instead of repeating string literals.
const (
	CmdCheckDBConnection   = "check_db_connection"
	CmdGetConnectionStatus = "get_connection_status"
	CmdGetProjects         = "get_projects"
	CmdGetCompanies        = "get_companies"
	CmdGetContacts         = "get_contacts"
	CmdGetProposals        = "get_proposals"
	CmdCreateProject       = "create_project"
	CmdCreateCompany       = "create_company"
	CmdCreateContact       = "create_contact"
	CmdCreateProposal      = "create_proposal"
	CmdHealthCheck         = "health_check"
	CmdGetStats            = "get_stats"
	CmdGetDBInfo           = "get_db_info"
)

// Commands lists every registered command in registration order.
func Commands() []string {
	return []string{
		CmdCheckDBConnection,
		CmdGetConnectionStatus,
		CmdGetProjects,
		CmdGetCompanies,
		CmdGetContacts,
		CmdGetProposals,
		CmdCreateProject,
		CmdCreateCompany,
		CmdCreateContact,
		CmdCreateProposal,
		CmdHealthCheck,
		CmdGetStats,
		CmdGetDBInfo,
	}
}
