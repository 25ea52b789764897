package resource

import "github.com/enescakir/emoji"

const (
	ProjectName    = "imposterbot"
	ProjectVersion = "v0.1.0"
	BotFatherURL   = "https://t.me/BotFather"

	GreetingCLI = "%s %s\nsocial deduction party game for telegram group chats\n\n"
)

const (
	CmdStart       = "start"
	CmdImposter    = "imposter"
	CmdBegin       = "begin"
	CmdStop        = "stop"
	CmdPoints      = "points"
	CmdResetPoints = "reset_points"
	CmdProfile     = "profile"
	CmdSetPrefix   = "setprefix"
	CmdHelp        = "help"

	MaxPrefixLen = 3
)

var (
	TextRules = emoji.Bookmark.String() + " *Imposter rules*\n\n" +
		"Everybody but the imposters gets a secret word. Imposters only know they are imposters.\n\n" +
		emoji.Joystick.String() + " /imposter opens a lobby, press *Join* to take part. " +
		"The game starts when the lobby timer runs out or the host sends /begin. At least 5 players are needed.\n\n" +
		emoji.Loudspeaker.String() + " Every round players are paired at random: the first one asks a question " +
		"about the word, the second one answers in the chat. Stay silent and you are kicked.\n\n" +
		emoji.GameDie.String() + " After 3 rounds you decide whether to play one more.\n\n" +
		emoji.Alien.String() + " Then everybody votes. Vote out an imposter and the crew wins, otherwise the imposters win.\n\n" +
		"*Commands:*\n" +
		"/imposter - open a lobby\n" +
		"/begin - start the game now (host only)\n" +
		"/stop - stop the game (host or admins)\n" +
		"/points - chat leaderboard\n" +
		"/reset\\_points - reset the leaderboard (admins)\n" +
		"/profile - your game stats\n" +
		"/setprefix - set an extra command prefix like # (admins)\n" +
		"/help - these rules"

	TextGreeting = emoji.Robot.String() + " Hi, %s! Add me to a group chat and send /imposter to play.\n\n" +
		"Open this private chat once so I can send you your role during games."

	TextWrongChat        = emoji.WomanGesturingNo.String() + " Games are not allowed in this chat"
	TextGroupOnly        = emoji.WomanGesturingNo.String() + " This command works in group chats only"
	TextGameInProgress   = emoji.VideoGame.String() + " A game is already running in this chat"
	TextNoGame           = emoji.CrossMark.String() + " There is no game in this chat, send /imposter"
	TextGameStopped      = emoji.ChequeredFlag.String() + " The game was stopped"
	TextOnlyHost         = emoji.CrossMark.String() + " Only the host can do this"
	TextNotEnoughPlayers = emoji.CrossMark.String() + " Not enough players yet, at least %d are needed"
	TextAlreadyStarted   = emoji.VideoGame.String() + " The game has already started"
	TextAdminRequired    = emoji.CrossMark.String() + " This command requires admin rights"
	TextNoPoints         = emoji.SportsMedal.String() + " Nobody has points in this chat yet"
	TextPointsReset      = emoji.CheckMarkButton.String() + " Leaderboard was reset"
	TextPrefixInvalid    = emoji.CrossMark.String() + " Prefix must be 1 to 3 characters without spaces"
	TextPrefixSet        = emoji.CheckMarkButton.String() + " Command prefix set to %s"
	TextSomethingWrong   = emoji.BrokenHeart.String() + " Something went wrong, try again"

	TextJoined           = emoji.ThumbsUp.String() + " You joined the game"
	TextAlreadyJoined    = "You have already joined"
	TextLobbyClosed      = "The lobby is closed"
	TextRosterFull       = "The lobby is full"
	TextNotStarted       = "Roles are not assigned yet"
	TextNotParticipant   = "You are not playing in this game"
	TextVoteAccepted     = emoji.CheckMark.String() + " Vote accepted"
	TextAlreadyVoted     = "You have already voted"
	TextSelfVote         = "You can not vote for yourself"
	TextUnknownCandidate = "This player is not in the game"
	TextNoActiveVote     = "Voting is closed"
)
