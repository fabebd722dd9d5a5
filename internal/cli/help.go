package cli

import (
	"slices"
	"strings"

	"github.com/chzyer/readline"

	"hompulse/console/internal/ui"
)

// CommandHelp represents the structure of help information for a specific command.
type CommandHelp struct {
	Scope     string
	Operation string
	ShortDesc string
	LongDesc  string
	Syntax    string
	Arguments []string
	Examples  []string
}

// printHelp prints the help message based on the provided arguments
func (c *CLI) printHelp(args []string) {
	visible := c.adapter.VisibleScopes(c.sessionID)
	switch len(args) {
	case 0:
		c.showGeneralHelp(visible)
	case 1:
		c.showScopeHelp(visible, strings.ToLower(args[0]))
	case 2:
		c.showOperationHelp(visible, strings.ToLower(args[0]), strings.ToLower(args[1]))
	default:
		c.ui.Warning("Invalid help command. Use 'help [scope] [operation]'")
	}
}

// showGeneralHelp displays an overview of the commands the user may run, grouped by scope
func (c *CLI) showGeneralHelp(visible []string) {
	c.ui.Println("Command syntax: <scope> <operation> [arguments] [field:value]...")
	currentScope := ""
	for _, h := range commandHelps {
		if !slices.Contains(visible, h.Scope) {
			continue
		}
		if h.Scope != currentScope {
			c.ui.PrintlnColored("\n"+h.Scope+":", ui.ColorWhite)
			currentScope = h.Scope
		}
		c.ui.Printf("  %-10s %s\n", h.Operation, h.ShortDesc)
	}
	if len(visible) <= 3 {
		c.ui.Info("\nLog in with 'auth login <username>' to see more commands.")
	}
}

// showScopeHelp displays help information for all commands within a specific scope
func (c *CLI) showScopeHelp(visible []string, scope string) {
	if !slices.Contains(visible, scope) {
		c.ui.Warning("No help for " + scope)
		return
	}
	c.ui.Printf("Commands for %s:\n\n", scope)
	for _, h := range commandHelps {
		if h.Scope == scope {
			c.ui.Printf("  %-10s %s\n", h.Operation, h.ShortDesc)
		}
	}
}

// showOperationHelp displays detailed help information for a specific operation within a scope
func (c *CLI) showOperationHelp(visible []string, scope, operation string) {
	if slices.Contains(visible, scope) {
		for _, h := range commandHelps {
			if h.Scope != scope || h.Operation != operation {
				continue
			}
			c.ui.Printf("Command: %s %s\n", scope, operation)
			c.ui.Printf("Description: %s\n", h.LongDesc)
			c.ui.Printf("Syntax: %s\n", h.Syntax)
			if len(h.Arguments) > 0 {
				c.ui.Println("Arguments:")
				for _, arg := range h.Arguments {
					c.ui.Printf("  %s\n", arg)
				}
			}
			if len(h.Examples) > 0 {
				c.ui.Println("Examples:")
				for _, ex := range h.Examples {
					c.ui.Printf("  %s\n", ex)
				}
			}
			return
		}
	}
	c.ui.Warning("No help found for " + scope + " " + operation)
}

// completer offers every scope and operation; gating is applied when the command runs
func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	var scope *readline.PrefixCompleter
	for _, h := range commandHelps {
		if scope == nil || string(scope.Name) != h.Scope+" " {
			scope = readline.PcItem(h.Scope)
			items = append(items, scope)
		}
		scope.Children = append(scope.Children, readline.PcItem(h.Operation))
	}
	items = append(items, readline.PcItem("help"))
	return readline.NewPrefixCompleter(items...)
}

// commandHelps holds the help entries, grouped by scope in display order
var commandHelps = []CommandHelp{
	{
		Scope: "auth", Operation: "login", ShortDesc: "Log in to HOM Pulse",
		LongDesc:  "Exchanges credentials for an access token and stores it for later runs. The password is prompted for when omitted.",
		Syntax:    "auth login <username> [password]",
		Examples:  []string{"auth login admin"},
	},
	{
		Scope: "auth", Operation: "logout", ShortDesc: "Log out",
		LongDesc: "Clears the stored access token.",
		Syntax:   "auth logout",
	},
	{
		Scope: "auth", Operation: "whoami", ShortDesc: "Show the logged-in user",
		LongDesc: "Shows the profile and role of the logged-in user.",
		Syntax:   "auth whoami",
	},
	{
		Scope: "geo", Operation: "ls", ShortDesc: "List the active level",
		LongDesc: "Lists the nodes of the active hierarchy level, loading the root level on first use.",
		Syntax:   "geo ls",
	},
	{
		Scope: "geo", Operation: "select", ShortDesc: "Drill into a node",
		LongDesc:  "Selects a node of the active level and loads its children, which become the active level.",
		Syntax:    "geo select <id|name>",
		Arguments: []string{"id|name: The node id, or its name (case-insensitive)"},
		Examples:  []string{"geo select North", "geo select 4"},
	},
	{
		Scope: "geo", Operation: "jump", ShortDesc: "Go back to a level",
		LongDesc:  "Moves back to an already visited level without a network call, dropping deeper selections.",
		Syntax:    "geo jump <level>",
		Arguments: []string{"level: The level key or display name, e.g. zone or State"},
		Examples:  []string{"geo jump zone"},
	},
	{
		Scope: "geo", Operation: "add", ShortDesc: "Create a node at the active level",
		LongDesc: "Creates a node under the current parent selection and appends it to the active list.",
		Syntax:   "geo add <name>",
		Examples: []string{`geo add "Central Zone"`},
	},
	{
		Scope: "geo", Operation: "reset", ShortDesc: "Return to the root level",
		LongDesc: "Clears every selection and reloads the root list.",
		Syntax:   "geo reset",
	},
	{
		Scope: "geo", Operation: "refresh", ShortDesc: "Reload the active level",
		LongDesc: "Fetches the active level's list again from the server.",
		Syntax:   "geo refresh",
	},
	{
		Scope: "geo", Operation: "path", ShortDesc: "Show the breadcrumb",
		LongDesc: "Shows the selected node at every level above the active one.",
		Syntax:   "geo path",
	},
	{
		Scope: "partner", Operation: "ls", ShortDesc: "List partners",
		LongDesc:  "Lists super-stockists, distributors and retailers, or one tier.",
		Syntax:    "partner ls [ss|distributor|retailer]",
		Examples:  []string{"partner ls", "partner ls retailer"},
	},
	{
		Scope: "partner", Operation: "add", ShortDesc: "Add a partner",
		LongDesc:  "Creates a partner in a tier. Name and territory are required.",
		Syntax:    "partner add <tier> name:<name> territory_id:<id> [contact_person:..] [phone:..] [email:..] [gstin:..] [is_active:true|false]",
		Examples:  []string{`partner add retailer name:"Sharma Stores" territory_id:12 phone:9876543210`},
	},
	{
		Scope: "partner", Operation: "update", ShortDesc: "Update a partner",
		LongDesc: "Changes the given fields of a partner.",
		Syntax:   "partner update <tier> <id> field:value...",
		Examples: []string{"partner update distributor 7 phone:9000000000"},
	},
	{
		Scope: "partner", Operation: "toggle", ShortDesc: "Activate or deactivate a partner",
		LongDesc: "Flips the active flag of a partner.",
		Syntax:   "partner toggle <tier> <id>",
	},
	{
		Scope: "product", Operation: "ls", ShortDesc: "List products",
		LongDesc: "Lists the product catalogue with prices.",
		Syntax:   "product ls",
	},
	{
		Scope: "product", Operation: "add", ShortDesc: "Add a product",
		LongDesc: "Creates a product. The price keeps its exact decimal digits.",
		Syntax:   "product add name:<name> price:<amount> [sku:..] [unit:..]",
		Examples: []string{`product add name:"Herbal Soap" price:45.50 unit:pcs`},
	},
	{
		Scope: "product", Operation: "update", ShortDesc: "Update a product",
		LongDesc: "Changes the given fields of a product.",
		Syntax:   "product update <id> field:value...",
	},
	{
		Scope: "product", Operation: "toggle", ShortDesc: "Activate or deactivate a product",
		LongDesc: "Flips the active flag of a product.",
		Syntax:   "product toggle <id>",
	},
	{
		Scope: "user", Operation: "ls", ShortDesc: "List users",
		LongDesc: "Lists users, optionally filtered by a username or email fragment.",
		Syntax:   "user ls [query]",
	},
	{
		Scope: "user", Operation: "add", ShortDesc: "Add a user",
		LongDesc: "Provisions a user account with a role.",
		Syntax:   "user add username:<name> password:<password> role_id:<id> [email:..]",
	},
	{
		Scope: "user", Operation: "update", ShortDesc: "Update a user",
		LongDesc: "Changes the given fields of a user. A blank password leaves the password unchanged.",
		Syntax:   "user update <id> field:value...",
	},
	{
		Scope: "user", Operation: "delete", ShortDesc: "Suspend a user",
		LongDesc: "Suspends a user account.",
		Syntax:   "user delete <id>",
	},
	{
		Scope: "role", Operation: "ls", ShortDesc: "List roles",
		LongDesc: "Lists role policies and their permission ids.",
		Syntax:   "role ls",
	},
	{
		Scope: "role", Operation: "add", ShortDesc: "Add a role",
		LongDesc: "Creates a role policy.",
		Syntax:   "role add name:<name> [description:..]",
	},
	{
		Scope: "role", Operation: "perms", ShortDesc: "Set role permissions",
		LongDesc: "Replaces the permissions granted to a role.",
		Syntax:   "role perms <role_id> <permission_id>...",
		Examples: []string{"role perms 3 1,2,5"},
	},
	{
		Scope: "permission", Operation: "ls", ShortDesc: "List permissions",
		LongDesc: "Lists the grantable permissions.",
		Syntax:   "permission ls",
	},
	{
		Scope: "inventory", Operation: "factory", ShortDesc: "Show factory stock",
		LongDesc: "Shows the stock held by a factory, factory 1 by default.",
		Syntax:   "inventory factory [factory_id]",
	},
	{
		Scope: "inventory", Operation: "ss", ShortDesc: "Show super-stockist stock",
		LongDesc: "Shows the stock held by a super-stockist.",
		Syntax:   "inventory ss <ss_id>",
	},
	{
		Scope: "inventory", Operation: "ledger", ShortDesc: "Show stock movements",
		LongDesc: "Lists stock movements across holders.",
		Syntax:   "inventory ledger",
	},
	{
		Scope: "inventory", Operation: "produce", ShortDesc: "Record factory production",
		LongDesc: "Adds produced quantity to factory stock.",
		Syntax:   "inventory produce product_id:<id> quantity:<n>",
	},
	{
		Scope: "inventory", Operation: "adjust", ShortDesc: "Adjust a stock balance",
		LongDesc:  "Corrects the stock of a product held by a factory, super-stockist, distributor or retailer.",
		Syntax:    "inventory adjust <factory|ss|distributor|retailer> <entity_id> product_id:<id> quantity:<n> reason:<text>",
		Examples:  []string{`inventory adjust ss 4 product_id:2 quantity:-3 reason:"damaged in transit"`},
	},
	{
		Scope: "finance", Operation: "ledger", ShortDesc: "Show a partner ledger",
		LongDesc: "Shows the transactions and balance of a partner.",
		Syntax:   "finance ledger <ss|distributor|retailer> <party_id>",
	},
	{
		Scope: "finance", Operation: "pay", ShortDesc: "Record a payment",
		LongDesc: "Records a payment received from a partner. The mode defaults to UPI.",
		Syntax:   "finance pay <ss|distributor|retailer> <party_id> amount:<n> [mode:..] [ref:..] [remarks:..]",
		Examples: []string{"finance pay retailer 9 amount:2500 mode:cash ref:RCPT-118"},
	},
	{
		Scope: "order", Operation: "ls", ShortDesc: "List orders",
		LongDesc: "Lists primary, secondary or tertiary orders with the actions they allow.",
		Syntax:   "order ls <primary|secondary|tertiary>",
	},
	{
		Scope: "order", Operation: "place", ShortDesc: "Place an order",
		LongDesc:  "Places an order. Primary orders go from the factory to a super-stockist; secondary from a distributor to a retailer; tertiary from a retailer to a consumer.",
		Syntax:    "order place <tier> [from:<id>] to:<id> product_id:<id> quantity:<n>",
		Examples:  []string{"order place primary to:3 product_id:1 quantity:100", "order place secondary from:7 to:21 product_id:1 quantity:12"},
	},
	{
		Scope: "order", Operation: "cancel", ShortDesc: "Cancel an order",
		LongDesc: "Cancels an order that is not closed.",
		Syntax:   "order cancel <tier> <id>",
	},
	{
		Scope: "order", Operation: "dispatch", ShortDesc: "Dispatch a primary order",
		LongDesc: "Marks a pending primary order as dispatched.",
		Syntax:   "order dispatch primary <id>",
	},
	{
		Scope: "order", Operation: "receive", ShortDesc: "Receive a primary order",
		LongDesc: "Marks a dispatched primary order as received.",
		Syntax:   "order receive primary <id>",
	},
	{
		Scope: "order", Operation: "approve", ShortDesc: "Approve a tertiary sale",
		LongDesc: "Approves a pending tertiary sale.",
		Syntax:   "order approve tertiary <id>",
	},
	{
		Scope: "consumer", Operation: "ls", ShortDesc: "List consumers",
		LongDesc: "Lists registered consumers.",
		Syntax:   "consumer ls",
	},
	{
		Scope: "consumer", Operation: "add", ShortDesc: "Register a consumer",
		LongDesc: "Registers an end consumer.",
		Syntax:   "consumer add name:<name> [phone:..] [address:..]",
	},
	{
		Scope: "consumer", Operation: "update", ShortDesc: "Update a consumer",
		LongDesc: "Changes the given fields of a consumer.",
		Syntax:   "consumer update <id> field:value...",
	},
	{
		Scope: "consumer", Operation: "delete", ShortDesc: "Delete a consumer",
		LongDesc: "Removes a consumer.",
		Syntax:   "consumer delete <id>",
	},
	{
		Scope: "system", Operation: "status", ShortDesc: "Show console status",
		LongDesc: "Shows the API endpoint, the session and the hierarchy position.",
		Syntax:   "system status",
	},
	{
		Scope: "system", Operation: "exit", ShortDesc: "Exit the console",
		LongDesc: "Exits the console. The login is kept for the next run.",
		Syntax:   "system exit",
	},
	{
		Scope: "system", Operation: "quit", ShortDesc: "Quit the console",
		LongDesc: "Equivalent to 'system exit'.",
		Syntax:   "system quit",
	},
}
