package constant

// AsciiArtLogo is the application's banner shown in the root command help.
const AsciiArtLogo = `
        _ __       __         __
   ___ (_) /______/ /  ___   / /__ ___ __
  / _ \/ / __/ __/ _ \/ _ \ / / _ ` + "`" + `/ // /
 / .__/_/\__/\__/_//_/ .__//_/\_,_/\_, /
/_/                 /_/           /___/
`
